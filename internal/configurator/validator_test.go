package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocat/internal/catalog"
)

func submittable() (Configuration, Attachments) {
	cfg := Default()
	cfg.BindingID = "softcover-klassisch"
	return cfg, Attachments{Document: true}
}

func TestValidateBinding(t *testing.T) {
	r := ValidateBinding(Default())
	require.False(t, r.Valid)
	assert.Equal(t, FieldBinding, r.Reasons[0].Field)
	assert.Equal(t, CodeRequired, r.Reasons[0].Code)

	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	assert.True(t, ValidateBinding(cfg).Valid)
}

func TestValidateDetails_CeilingIsInclusive(t *testing.T) {
	cat := catalog.Default()
	for _, binding := range cat.Bindings() {
		for _, paper := range cat.Papers() {
			for _, mode := range binding.PrintModes {
				limit, ok := cat.PageLimit(binding.ID, paper.ID, mode)
				require.True(t, ok)

				cfg := Default()
				cfg.BindingID = binding.ID
				cfg.PaperID = paper.ID
				cfg.PrintModeID = mode
				if len(binding.CoverColors) > 0 {
					cfg.CoverColor = binding.CoverColors[0]
				}

				cfg.PageCount = limit
				assert.True(t, ValidateDetails(cfg, cat).Valid, "%s/%s/%s at %d", binding.ID, paper.ID, mode, limit)

				cfg.PageCount = limit + 1
				r := ValidateDetails(cfg, cat)
				assert.False(t, r.Valid, "%s/%s/%s at %d", binding.ID, paper.ID, mode, limit+1)
				assert.True(t, r.Has(FieldPageCount))
			}
		}
	}
}

func TestValidateDetails_Rejections(t *testing.T) {
	cat := catalog.Default()

	cases := []struct {
		name  string
		edit  func(*Configuration)
		field Field
		code  string
	}{
		{"zero pages", func(c *Configuration) { c.PageCount = 0 }, FieldPageCount, CodeOutOfRange},
		{"no paper", func(c *Configuration) { c.PaperID = "" }, FieldPaper, CodeRequired},
		{"unknown paper", func(c *Configuration) { c.PaperID = "papyrus" }, FieldPaper, CodeUnknown},
		{"unknown print", func(c *Configuration) { c.PrintModeID = "triple" }, FieldPrintMode, CodeUnknown},
		{"unsupported format", func(c *Configuration) { c.Format = "A3" }, FieldFormat, CodeUnsupported},
		{"no binding", func(c *Configuration) { c.BindingID = "" }, FieldBinding, CodeRequired},
		{"foreign cover color", func(c *Configuration) { c.CoverColor = "burgundy" }, FieldCoverColor, CodeUnsupported},
		{"missing cover color", func(c *Configuration) { c.CoverColor = "" }, FieldCoverColor, CodeRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.BindingID = catalog.HardcoverID
			tc.edit(&cfg)

			r := ValidateDetails(cfg, cat)
			require.False(t, r.Valid)
			assert.True(t, hasReason(r, tc.field, tc.code), "%+v", r.Reasons)
		})
	}
}

func hasReason(r Result, field Field, code string) bool {
	for _, reason := range r.Reasons {
		if reason.Field == field && reason.Code == code {
			return true
		}
	}
	return false
}

func TestValidateDetails_NoColorPaletteSkipsColorCheck(t *testing.T) {
	cfg := Default()
	cfg.BindingID = "individualdruck"
	cfg.CoverColor = ""
	assert.True(t, ValidateDetails(cfg, catalog.Default()).Valid)
}

func TestValidateCover(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	assert.True(t, ValidateCover(cfg, cat, Attachments{}).Valid)

	cfg.CoverID = "custom-logo"
	r := ValidateCover(cfg, cat, Attachments{})
	require.False(t, r.Valid)
	assert.True(t, r.Has(FieldCustomLogo))
	assert.True(t, ValidateCover(cfg, cat, Attachments{CustomLogo: true}).Valid)

	cfg.CoverID = ""
	assert.True(t, ValidateCover(cfg, cat, Attachments{}).Has(FieldCover))
}

func TestValidateUpload(t *testing.T) {
	assert.False(t, ValidateUpload(Attachments{}).Valid)
	assert.True(t, ValidateUpload(Attachments{Document: true}).Valid)
}

func TestValidateHardcover(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	cfg.SpineEmbossing = true

	r := ValidateHardcover(cfg, cat)
	require.False(t, r.Valid)
	assert.True(t, r.Has(FieldSpineText))

	cfg.SpineText = "   "
	assert.False(t, ValidateHardcover(cfg, cat).Valid)

	cfg.SpineText = "Bachelorarbeit 2025"
	assert.True(t, ValidateHardcover(cfg, cat).Valid)

	cfg.EmbossingColor = "purple"
	assert.True(t, ValidateHardcover(cfg, cat).Has(FieldEmbossingColor))
}

func TestValidateHardcover_IgnoredForOtherBindings(t *testing.T) {
	cfg := Default()
	cfg.BindingID = "spiralbindung-metall"
	cfg.SpineEmbossing = true
	cfg.SpineText = ""
	cfg.EmbossingColor = "purple"
	assert.True(t, ValidateHardcover(cfg, catalog.Default()).Valid)
}

func TestValidateSubmission(t *testing.T) {
	cat := catalog.Default()

	cfg, att := submittable()
	assert.True(t, ValidateSubmission(cfg, cat, att).Valid)

	cfg.Copies = 0
	assert.True(t, ValidateSubmission(cfg, cat, att).Has(FieldCopies))

	cfg, _ = submittable()
	assert.True(t, ValidateSubmission(cfg, cat, Attachments{}).Has(FieldDocument))

	cfg.ShippingID = "drone"
	assert.True(t, ValidateSubmission(cfg, cat, att).Has(FieldShipping))
}

func TestValidateSubmission_DeduplicatesReasons(t *testing.T) {
	r := ValidateSubmission(Default(), catalog.Default(), Attachments{Document: true})
	require.False(t, r.Valid)

	count := 0
	for _, reason := range r.Reasons {
		if reason.Field == FieldBinding {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidateStep(t *testing.T) {
	cat := catalog.Default()
	cfg, att := submittable()

	assert.True(t, ValidateStep(StepBinding, cfg, cat, att).Valid)
	assert.True(t, ValidateStep(StepUpload, cfg, cat, att).Valid)
	assert.False(t, ValidateStep(StepUpload, cfg, cat, Attachments{}).Valid)
	assert.True(t, ValidateStep(StepConfirmed, Configuration{}, cat, Attachments{}).Valid)
}
