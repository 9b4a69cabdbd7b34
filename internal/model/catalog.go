package model

const (
	CategoryLab        = "Xét nghiệm"
	CategoryImaging    = "Chẩn đoán hình ảnh"
	CategoryFunctional = "Thăm dò chức năng"
)

// AncillaryService is an orderable lab or imaging service.
type AncillaryService struct {
	ID              string `json:"id" db:"id"`
	Code            string `json:"code" db:"code"`
	Name            string `json:"name" db:"name"`
	Category        string `json:"category" db:"category"`
	Price           int64  `json:"price" db:"price"`
	TurnaroundHours int    `json:"turnaroundHours" db:"turnaround_hours"`
	Description     string `json:"description,omitempty" db:"description"`
}

type CatalogFilter struct {
	Category string
	// Query matches name or code, ignoring case and Vietnamese diacritics.
	Query string
}
