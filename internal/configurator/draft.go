package configurator

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"pocat/internal/catalog"
)

// DraftKey is the well-known key drafts are stored under.
const DraftKey = "savedConfig"

// draft is the persisted shape. Key names are shared with the website, which
// reads and writes the same blob.
type draft struct {
	Binding        string `json:"selectedBinding,omitempty"`
	Format         string `json:"selectedFormat,omitempty"`
	PageCount      int    `json:"pageCount,omitempty"`
	Paper          string `json:"selectedPaper,omitempty"`
	PrintOption    string `json:"selectedPrintOption,omitempty"`
	CoverOption    string `json:"selectedCoverOption,omitempty"`
	CoverNote      string `json:"coverNote,omitempty"`
	Shipping       string `json:"selectedShipping,omitempty"`
	Copies         int    `json:"copies,omitempty"`
	CoverColor     string `json:"selectedCoverColor,omitempty"`
	EmbossingColor string `json:"selectedEmbossingColor,omitempty"`
	SpineEmbossing bool   `json:"spineEmbossing,omitempty"`
	SpineText      string `json:"spineText,omitempty"`
	BookCorners    bool   `json:"bookCorners,omitempty"`
	CornerColor    string `json:"bookCornerColor,omitempty"`
	XXLUpgrade     bool   `json:"xxlUpgrade,omitempty"`
}

func EncodeDraft(cfg Configuration) ([]byte, error) {
	data, err := json.Marshal(draft{
		Binding:        cfg.BindingID,
		Format:         string(cfg.Format),
		PageCount:      cfg.PageCount,
		Paper:          cfg.PaperID,
		PrintOption:    cfg.PrintModeID,
		CoverOption:    cfg.CoverID,
		CoverNote:      cfg.CoverNote,
		Shipping:       cfg.ShippingID,
		Copies:         cfg.Copies,
		CoverColor:     cfg.CoverColor,
		EmbossingColor: cfg.EmbossingColor,
		SpineEmbossing: cfg.SpineEmbossing,
		SpineText:      cfg.SpineText,
		BookCorners:    cfg.BookCorners,
		CornerColor:    cfg.CornerColor,
		XXLUpgrade:     cfg.XXLUpgrade,
	})
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return data, nil
}

// DecodeDraft merges blob over base. Only truthy values overwrite: empty
// strings, zero or negative numbers and false flags keep the base value. A
// blob that does not parse is logged and base is returned unchanged.
func DecodeDraft(blob []byte, base Configuration, logger *zap.Logger) Configuration {
	if len(blob) == 0 {
		return base
	}

	var d draft
	if err := json.Unmarshal(blob, &d); err != nil {
		if logger != nil {
			logger.Warn("ignoring malformed draft", zap.Error(err))
		}
		return base
	}

	cfg := base
	mergeString(&cfg.BindingID, d.Binding)
	if d.Format != "" {
		cfg.Format = catalog.Format(d.Format)
	}
	mergeCount(&cfg.PageCount, d.PageCount)
	mergeString(&cfg.PaperID, d.Paper)
	mergeString(&cfg.PrintModeID, d.PrintOption)
	mergeString(&cfg.CoverID, d.CoverOption)
	mergeString(&cfg.CoverNote, d.CoverNote)
	mergeString(&cfg.ShippingID, d.Shipping)
	mergeCount(&cfg.Copies, d.Copies)
	mergeString(&cfg.CoverColor, d.CoverColor)
	mergeString(&cfg.EmbossingColor, d.EmbossingColor)
	mergeFlag(&cfg.SpineEmbossing, d.SpineEmbossing)
	mergeString(&cfg.SpineText, truncateRunes(d.SpineText, MaxSpineTextLength))
	mergeFlag(&cfg.BookCorners, d.BookCorners)
	mergeString(&cfg.CornerColor, d.CornerColor)
	mergeFlag(&cfg.XXLUpgrade, d.XXLUpgrade)

	return cfg
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeCount(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func mergeFlag(dst *bool, v bool) {
	if v {
		*dst = true
	}
}
