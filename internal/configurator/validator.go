package configurator

import (
	"fmt"
	"strings"

	"pocat/internal/catalog"
)

const (
	CodeRequired      = "required"
	CodeUnknown       = "unknown"
	CodeUnsupported   = "unsupported"
	CodeOutOfRange    = "out_of_range"
	CodeExceedsLimit  = "exceeds_limit"
	CodeMissingUpload = "missing_upload"
)

type Reason struct {
	Field   Field  `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is returned by every validator. Validation failures are data for
// the caller to render, never errors.
type Result struct {
	Valid   bool     `json:"valid"`
	Reasons []Reason `json:"reasons,omitempty"`
}

// Attachments records whether files were uploaded. File contents are
// handled elsewhere.
type Attachments struct {
	Document   bool `json:"document"`
	CustomLogo bool `json:"customLogo"`
}

func ok() Result {
	return Result{Valid: true}
}

func (r *Result) add(field Field, code, format string, args ...any) {
	r.Valid = false
	r.Reasons = append(r.Reasons, Reason{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// merge combines results, dropping repeated (field, code) pairs.
func merge(results ...Result) Result {
	out := ok()
	seen := make(map[Reason]bool)
	for _, r := range results {
		for _, reason := range r.Reasons {
			key := Reason{Field: reason.Field, Code: reason.Code}
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Valid = false
			out.Reasons = append(out.Reasons, reason)
		}
	}
	return out
}

// Has reports whether a reason for field is present.
func (r Result) Has(field Field) bool {
	for _, reason := range r.Reasons {
		if reason.Field == field {
			return true
		}
	}
	return false
}

func ValidateBinding(cfg Configuration) Result {
	r := ok()
	if !cfg.HasBinding() {
		r.add(FieldBinding, CodeRequired, "please select a binding type")
	}
	return r
}

// ValidateDetails checks paper, print mode, page count and cover color
// against the selected binding. The page ceiling is inclusive.
func ValidateDetails(cfg Configuration, cat *catalog.Catalog) Result {
	r := ok()

	if cfg.PageCount <= 0 {
		r.add(FieldPageCount, CodeOutOfRange, "please enter a valid page count")
	}

	paper, paperOK := cat.Paper(cfg.PaperID)
	switch {
	case cfg.PaperID == "":
		r.add(FieldPaper, CodeRequired, "please select a paper type")
	case !paperOK:
		r.add(FieldPaper, CodeUnknown, "paper %q is not available", cfg.PaperID)
	}

	_, printOK := cat.PrintMode(cfg.PrintModeID)
	switch {
	case cfg.PrintModeID == "":
		r.add(FieldPrintMode, CodeRequired, "please select a print option")
	case !printOK:
		r.add(FieldPrintMode, CodeUnknown, "print option %q is not available", cfg.PrintModeID)
	}

	if cfg.Format == "" {
		r.add(FieldFormat, CodeRequired, "please select a format")
	}

	if !cfg.HasBinding() {
		r.add(FieldBinding, CodeRequired, "please select a binding type")
		return r
	}
	binding, found := cat.Binding(cfg.BindingID)
	if !found {
		r.add(FieldBinding, CodeUnknown, "binding %q is not available", cfg.BindingID)
		return r
	}

	if cfg.Format != "" && !binding.SupportsFormat(cfg.Format) {
		r.add(FieldFormat, CodeUnsupported, "%s is not available for %s", cfg.Format, binding.Name)
	}
	if paperOK && !binding.SupportsWeight(paper.Weight) {
		r.add(FieldPaper, CodeUnsupported, "%s is not available for %s", paper.Name, binding.Name)
	}
	if printOK && !binding.SupportsPrintMode(cfg.PrintModeID) {
		r.add(FieldPrintMode, CodeUnsupported, "print option %q is not available for %s", cfg.PrintModeID, binding.Name)
	}

	if cfg.PageCount > 0 && paperOK && printOK {
		if limit, found := binding.PageLimits.Lookup(paper.Weight, cfg.PrintModeID); found && cfg.PageCount > limit {
			r.add(FieldPageCount, CodeExceedsLimit, "maximum page count for this configuration is %d", limit)
		}
	}

	if len(binding.CoverColors) > 0 {
		switch {
		case cfg.CoverColor == "":
			r.add(FieldCoverColor, CodeRequired, "please select a cover color")
		case !binding.AllowsCoverColor(cfg.CoverColor):
			r.add(FieldCoverColor, CodeUnsupported, "cover color %q is not available for %s", cfg.CoverColor, binding.Name)
		}
	}

	return r
}

func ValidateCover(cfg Configuration, cat *catalog.Catalog, att Attachments) Result {
	r := ok()
	if cfg.CoverID == "" {
		r.add(FieldCover, CodeRequired, "please select a cover option")
		return r
	}
	cover, found := cat.Cover(cfg.CoverID)
	if !found {
		r.add(FieldCover, CodeUnknown, "cover option %q is not available", cfg.CoverID)
		return r
	}
	if cover.RequiresLogo && !att.CustomLogo {
		r.add(FieldCustomLogo, CodeMissingUpload, "please upload a custom logo or select a predefined one")
	}
	return r
}

func ValidateUpload(att Attachments) Result {
	r := ok()
	if !att.Document {
		r.add(FieldDocument, CodeMissingUpload, "please upload your document")
	}
	return r
}

// ValidateHardcover checks the hardcover extras. For every other binding the
// extras are inert and always valid.
func ValidateHardcover(cfg Configuration, cat *catalog.Catalog) Result {
	r := ok()
	if !cfg.IsHardcover() || !cfg.SpineEmbossing {
		return r
	}
	if strings.TrimSpace(cfg.SpineText) == "" {
		r.add(FieldSpineText, CodeRequired, "please enter spine text for embossing")
	}
	if binding, found := cat.Binding(cfg.BindingID); found && !binding.AllowsEmbossingColor(cfg.EmbossingColor) {
		r.add(FieldEmbossingColor, CodeUnsupported, "embossing color %q is not available", cfg.EmbossingColor)
	}
	return r
}

// ValidateSubmission is the precondition for placing an order.
func ValidateSubmission(cfg Configuration, cat *catalog.Catalog, att Attachments) Result {
	r := ok()
	if cfg.Copies < 1 {
		r.add(FieldCopies, CodeOutOfRange, "please select at least one copy")
	}
	switch {
	case cfg.ShippingID == "":
		r.add(FieldShipping, CodeRequired, "please select a shipping option")
	default:
		if _, found := cat.Shipping(cfg.ShippingID); !found {
			r.add(FieldShipping, CodeUnknown, "shipping option %q is not available", cfg.ShippingID)
		}
	}

	return merge(
		ValidateBinding(cfg),
		ValidateDetails(cfg, cat),
		ValidateCover(cfg, cat, att),
		ValidateUpload(att),
		ValidateHardcover(cfg, cat),
		r,
	)
}

// ValidateStep gates leaving step. The review step is gated by the full
// submission rules.
func ValidateStep(step Step, cfg Configuration, cat *catalog.Catalog, att Attachments) Result {
	switch step {
	case StepBinding:
		return ValidateBinding(cfg)
	case StepDetails:
		return ValidateDetails(cfg, cat)
	case StepCover:
		return ValidateCover(cfg, cat, att)
	case StepUpload:
		return ValidateUpload(att)
	case StepReview:
		return ValidateSubmission(cfg, cat, att)
	default:
		return ok()
	}
}

// XXLRequired reports whether the page count reached the threshold from
// which the XXL upgrade can no longer be switched off.
func XXLRequired(cfg Configuration, cat *catalog.Catalog) bool {
	threshold, found := cat.XXLThreshold(cfg.BindingID, cfg.PaperID, cfg.PrintModeID)
	return found && cfg.PageCount >= threshold
}

// EffectiveXXL combines the customer's choice with the lockout.
func EffectiveXXL(cfg Configuration, cat *catalog.Catalog) bool {
	if XXLRequired(cfg, cat) {
		return true
	}
	binding, found := cat.Binding(cfg.BindingID)
	return found && binding.SupportsXXL && cfg.XXLUpgrade
}
