// Package abbreviation expands Vietnamese clinical shorthand typed into
// free-text fields at the desk.
package abbreviation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

// DefaultDictionary holds the shorthand the desk staff use most.
var DefaultDictionary = map[string]string{
	"BN":   "bệnh nhân",
	"BS":   "bác sĩ",
	"CĐ":   "chẩn đoán",
	"CĐHA": "chẩn đoán hình ảnh",
	"CLS":  "cận lâm sàng",
	"CTM":  "công thức máu",
	"ĐT":   "điều trị",
	"ĐTĐ":  "đái tháo đường",
	"HA":   "huyết áp",
	"KB":   "khám bệnh",
	"NV":   "nhập viện",
	"SA":   "siêu âm",
	"TC":   "triệu chứng",
	"THA":  "tăng huyết áp",
	"TS":   "tiền sử",
	"XN":   "xét nghiệm",
	"XQ":   "X-quang",
	"ECG":  "điện tâm đồ",
	"BHYT": "bảo hiểm y tế",
	"k":    "không",
	"ko":   "không",
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Expander replaces whole-word abbreviations with their expansion.
// Matching is case-sensitive so "HA" expands and "ha" does not.
type Expander struct {
	dict map[string]string
}

// New builds an expander from the default dictionary plus extra entries;
// extra entries win on conflicts. An empty expansion removes a default.
func New(extra map[string]string) *Expander {
	dict := make(map[string]string, len(DefaultDictionary)+len(extra))
	for k, v := range DefaultDictionary {
		dict[k] = v
	}
	for k, v := range extra {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if v == "" {
			delete(dict, k)
			continue
		}
		dict[k] = v
	}
	return &Expander{dict: dict}
}

// Expand returns text with every dictionary word replaced. Spacing and
// punctuation around words are preserved.
func (e *Expander) Expand(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		expansion, ok := e.dict[word]
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(expansion)
		last = loc[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// ExpandInput expands the free-text fields of a registration form in place:
// symptoms and order notes. Identity and scheduling fields are left alone.
func (e *Expander) ExpandInput(in *model.RegistrationInput) {
	if in == nil {
		return
	}
	in.Appointment.Symptoms = e.Expand(in.Appointment.Symptoms)
	for i := range in.Orders {
		in.Orders[i].Note = e.Expand(in.Orders[i].Note)
	}
}

// Entry is one dictionary row as listed by the API.
type Entry struct {
	Abbreviation string `json:"abbreviation"`
	Expansion    string `json:"expansion"`
}

// Entries lists the dictionary sorted by abbreviation.
func (e *Expander) Entries() []Entry {
	out := make([]Entry, 0, len(e.dict))
	for k, v := range e.dict {
		out = append(out, Entry{Abbreviation: k, Expansion: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}
