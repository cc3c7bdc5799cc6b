package configurator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"pocat/internal/catalog"
)

// Field names a single user-editable part of a Configuration.
type Field string

const (
	FieldBinding        Field = "binding"
	FieldFormat         Field = "format"
	FieldPaper          Field = "paper"
	FieldPrintMode      Field = "printMode"
	FieldPageCount      Field = "pageCount"
	FieldCopies         Field = "copies"
	FieldCover          Field = "cover"
	FieldCoverNote      Field = "coverNote"
	FieldShipping       Field = "shipping"
	FieldCoverColor     Field = "coverColor"
	FieldEmbossingColor Field = "embossingColor"
	FieldSpineEmbossing Field = "spineEmbossing"
	FieldSpineText      Field = "spineText"
	FieldBookCorners    Field = "bookCorners"
	FieldCornerColor    Field = "cornerColor"
	FieldXXLUpgrade     Field = "xxlUpgrade"

	// Attachment fields only appear in validation reasons.
	FieldDocument   Field = "document"
	FieldCustomLogo Field = "customLogo"
)

// MaxSpineTextLength is enforced when the text is entered.
const MaxSpineTextLength = 52

var editableFields = []Field{
	FieldBinding, FieldFormat, FieldPaper, FieldPrintMode, FieldPageCount,
	FieldCopies, FieldCover, FieldCoverNote, FieldShipping, FieldCoverColor,
	FieldEmbossingColor, FieldSpineEmbossing, FieldSpineText, FieldBookCorners,
	FieldCornerColor, FieldXXLUpgrade,
}

// Fields lists every field Apply accepts.
func Fields() []Field {
	out := make([]Field, len(editableFields))
	copy(out, editableFields)
	return out
}

// Configuration is the selection record one customer builds across the
// configurator steps. An empty BindingID means no binding was chosen yet.
type Configuration struct {
	BindingID   string         `json:"bindingId"`
	Format      catalog.Format `json:"format"`
	PaperID     string         `json:"paperId"`
	PrintModeID string         `json:"printModeId"`
	PageCount   int            `json:"pageCount"`
	Copies      int            `json:"copies"`
	CoverID     string         `json:"coverId"`
	CoverNote   string         `json:"coverNote"`
	ShippingID  string         `json:"shippingId"`

	// Binding specific extras. They keep their values when the binding
	// changes; pricing and validation ignore them where they do not apply.
	CoverColor     string `json:"coverColor"`
	EmbossingColor string `json:"embossingColor"`
	SpineEmbossing bool   `json:"spineEmbossing"`
	SpineText      string `json:"spineText"`
	BookCorners    bool   `json:"bookCorners"`
	CornerColor    string `json:"cornerColor"`
	XXLUpgrade     bool   `json:"xxlUpgrade"`
}

func (c Configuration) HasBinding() bool {
	return c.BindingID != ""
}

func (c Configuration) IsHardcover() bool {
	return c.BindingID == catalog.HardcoverID
}

// Default returns the configuration a new visitor starts with.
func Default() Configuration {
	return Configuration{
		Format:         catalog.FormatA4,
		PaperID:        "standard",
		PrintModeID:    catalog.PrintDouble,
		PageCount:      80,
		Copies:         1,
		CoverID:        "uni-heidelberg",
		ShippingID:     "pickup",
		CoverColor:     "black",
		EmbossingColor: "gold",
		CornerColor:    "gold",
	}
}

// Apply returns cfg with exactly one field replaced by value. Every event is
// accepted: counts that do not parse are stored as 0 and left to the
// validator, negative counts clamp to 0, flags that do not parse are false.
// Unknown fields leave cfg unchanged.
func Apply(cfg Configuration, field Field, value string) Configuration {
	value = strings.TrimSpace(value)

	switch field {
	case FieldBinding:
		if value == "none" {
			value = ""
		}
		cfg.BindingID = value
	case FieldFormat:
		cfg.Format = catalog.Format(strings.ToUpper(value))
	case FieldPaper:
		cfg.PaperID = value
	case FieldPrintMode:
		cfg.PrintModeID = value
	case FieldPageCount:
		cfg.PageCount = parseCount(value)
	case FieldCopies:
		cfg.Copies = parseCount(value)
	case FieldCover:
		cfg.CoverID = value
	case FieldCoverNote:
		cfg.CoverNote = value
	case FieldShipping:
		cfg.ShippingID = value
	case FieldCoverColor:
		cfg.CoverColor = value
	case FieldEmbossingColor:
		cfg.EmbossingColor = value
	case FieldSpineEmbossing:
		cfg.SpineEmbossing = parseFlag(value)
	case FieldSpineText:
		cfg.SpineText = truncateRunes(value, MaxSpineTextLength)
	case FieldBookCorners:
		cfg.BookCorners = parseFlag(value)
	case FieldCornerColor:
		cfg.CornerColor = value
	case FieldXXLUpgrade:
		cfg.XXLUpgrade = parseFlag(value)
	}

	return cfg
}

func parseCount(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFlag(value string) bool {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return value == "on" || value == "yes"
	}
	return v
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
