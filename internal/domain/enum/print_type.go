package enum

import "strings"

// PrintType is the sidedness of a print job
type PrintType string

const (
	PrintTypeRecto      PrintType = "Recto"
	PrintTypeRectoVerso PrintType = "Recto-verso"
	PrintTypeBoth       PrintType = "Both"
)

// PrintTypes lists every supported print type in display order
var PrintTypes = []PrintType{PrintTypeRecto, PrintTypeRectoVerso, PrintTypeBoth}

func (p PrintType) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known print types
func (p PrintType) IsValid() bool {
	switch p {
	case PrintTypeRecto, PrintTypeRectoVerso, PrintTypeBoth:
		return true
	}
	return false
}

// Label returns a human-readable label used on receipts and exports
func (p PrintType) Label() string {
	switch p {
	case PrintTypeRecto:
		return "Single-sided"
	case PrintTypeRectoVerso:
		return "Double-sided"
	case PrintTypeBoth:
		return "Mixed"
	}
	return string(p)
}

// ParsePrintType accepts the canonical names case-insensitively, plus a few
// common spellings of recto-verso.
func ParsePrintType(s string) (PrintType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recto":
		return PrintTypeRecto, true
	case "recto-verso", "rectoverso", "recto_verso", "recto verso":
		return PrintTypeRectoVerso, true
	case "both":
		return PrintTypeBoth, true
	}
	return PrintType(s), false
}
