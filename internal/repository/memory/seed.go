package memory

import (
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

// DemoServices is the catalog served when no database is configured.
func DemoServices() []*model.AncillaryService {
	return []*model.AncillaryService{
		{ID: "XN001", Code: "XN001", Name: "Tổng phân tích tế bào máu ngoại vi", Category: model.CategoryLab, Price: 45000, TurnaroundHours: 2},
		{ID: "XN002", Code: "XN002", Name: "Định lượng Glucose máu", Category: model.CategoryLab, Price: 25000, TurnaroundHours: 1, Description: "Nhịn ăn ít nhất 8 giờ"},
		{ID: "XN003", Code: "XN003", Name: "Định lượng HbA1c", Category: model.CategoryLab, Price: 120000, TurnaroundHours: 4},
		{ID: "XN004", Code: "XN004", Name: "Tổng phân tích nước tiểu", Category: model.CategoryLab, Price: 40000, TurnaroundHours: 2},
		{ID: "XN005", Code: "XN005", Name: "Bilan lipid máu", Category: model.CategoryLab, Price: 150000, TurnaroundHours: 4, Description: "Nhịn ăn ít nhất 8 giờ"},
		{ID: "CDHA01", Code: "CDHA01", Name: "X-quang ngực thẳng", Category: model.CategoryImaging, Price: 100000, TurnaroundHours: 1},
		{ID: "CDHA02", Code: "CDHA02", Name: "Siêu âm ổ bụng tổng quát", Category: model.CategoryImaging, Price: 150000, TurnaroundHours: 1},
		{ID: "CDHA03", Code: "CDHA03", Name: "Chụp CT sọ não không tiêm thuốc cản quang", Category: model.CategoryImaging, Price: 650000, TurnaroundHours: 3},
		{ID: "CDHA04", Code: "CDHA04", Name: "Chụp MRI cột sống thắt lưng", Category: model.CategoryImaging, Price: 1800000, TurnaroundHours: 24},
		{ID: "TDCN01", Code: "TDCN01", Name: "Điện tâm đồ", Category: model.CategoryFunctional, Price: 50000, TurnaroundHours: 1},
		{ID: "TDCN02", Code: "TDCN02", Name: "Đo chức năng hô hấp", Category: model.CategoryFunctional, Price: 180000, TurnaroundHours: 2},
		{ID: "TDCN03", Code: "TDCN03", Name: "Nội soi dạ dày tá tràng", Category: model.CategoryFunctional, Price: 800000, TurnaroundHours: 2, Description: "Nhịn ăn ít nhất 6 giờ"},
	}
}

type demoDoctor struct {
	id, name, specialty, department, room string
	weekdays                              []time.Weekday
}

var demoDoctors = []demoDoctor{
	{"BS001", "Nguyễn Văn An", "Tim mạch", "Khoa Nội", "P101", []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
	{"BS002", "Trần Thị Bình", "Tiêu hóa", "Khoa Nội", "P102", []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}},
	{"BS003", "Lê Hoàng Cường", "Chấn thương chỉnh hình", "Khoa Ngoại", "P201", []time.Weekday{time.Monday, time.Tuesday, time.Thursday}},
	{"BS004", "Phạm Thu Dung", "Nhi tổng quát", "Khoa Nhi", "P301", []time.Weekday{time.Monday, time.Wednesday, time.Thursday, time.Saturday}},
	{"BS005", "Hoàng Minh Đức", "Tai mũi họng", "Khoa Khám bệnh", "P005", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}},
	{"BS006", "Vũ Ngọc Hà", "Sản phụ khoa", "Khoa Sản", "P401", []time.Weekday{time.Tuesday, time.Friday}},
}

// DemoSchedules generates schedules for the given number of days starting at from.
func DemoSchedules(from time.Time, days int) []*model.DoctorSchedule {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]*model.DoctorSchedule, 0)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for i, doc := range demoDoctors {
			if !worksOn(doc, day.Weekday()) {
				continue
			}
			out = append(out, &model.DoctorSchedule{
				DoctorID:   doc.id,
				DoctorName: doc.name,
				Specialty:  doc.specialty,
				Department: doc.department,
				Date:       day,
				Shifts: []model.Shift{
					{Start: "07:30", End: "11:30", Room: doc.room, Capacity: 20, Booked: (d*7 + i*3) % 21},
					{Start: "13:30", End: "16:30", Room: doc.room, Capacity: 15, Booked: (d*5 + i*2) % 16},
				},
			})
		}
	}
	return out
}

func worksOn(doc demoDoctor, wd time.Weekday) bool {
	for _, w := range doc.weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

