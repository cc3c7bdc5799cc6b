package configurator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pocat/internal/catalog"
)

func TestComputePrice_HardcoverWaivesShipping(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	cfg.SpineEmbossing = true
	cfg.SpineText = "Masterarbeit"
	cfg.ShippingID = "express"

	b := ComputePrice(cfg, cat, FullConfiguration)

	assert.Equal(t, 40, b.EffectivePages)
	assert.InDelta(t, 8.00, b.PaperPrice, 1e-9)
	assert.Equal(t, 25.00, b.BindingPrice)
	assert.Equal(t, 15.00, b.ExtrasPrice)
	assert.InDelta(t, 48.00, b.PricePerUnit, 1e-9)
	assert.Equal(t, 1, b.DiscountedCopies)
	assert.Zero(t, b.ShippingPrice)
	assert.Equal(t, 48.00, b.Total)
	assert.Empty(t, b.Unresolved)
}

func TestComputePrice_VolumeDiscountWithShipping(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = "softcover-klassisch"
	cfg.PaperID = "premium"
	cfg.PrintModeID = catalog.PrintSingle
	cfg.PageCount = 100
	cfg.Copies = 4
	cfg.ShippingID = "standard"

	b := ComputePrice(cfg, cat, FullConfiguration)

	assert.Equal(t, 100, b.EffectivePages)
	assert.InDelta(t, 30.00, b.PaperPrice, 1e-9)
	assert.InDelta(t, 42.90, b.PricePerUnit, 1e-9)
	assert.Equal(t, 4, b.Copies)
	assert.Equal(t, 3, b.DiscountedCopies)
	assert.Equal(t, 4.90, b.ShippingPrice)
	assert.Equal(t, 133.60, b.Total)
}

func TestComputePrice_NegativeCopiesBillNothing(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = "spiralbindung-plastik"
	cfg.Copies = -8

	b := ComputePrice(cfg, cat, FullConfiguration)

	assert.Zero(t, b.Copies)
	assert.Zero(t, b.DiscountedCopies)
	assert.GreaterOrEqual(t, b.Total, 0.0)
	assert.Equal(t, b.ShippingPrice, b.Total)
}

func TestComputePrice_NoBindingIsZero(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.Copies = 12
	cfg.ShippingID = "international"
	cfg.SpineEmbossing = true

	for _, mode := range []PricingMode{BindingOnly, FullConfiguration} {
		b := ComputePrice(cfg, cat, mode)
		assert.Zero(t, b.Total, mode.String())
		assert.Zero(t, b.ShippingPrice, mode.String())
		assert.Zero(t, b.PaperPrice, mode.String())
	}
}

func TestComputePrice_BindingOnlyMode(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	cfg.SpineEmbossing = true
	cfg.BookCorners = true
	cfg.Copies = 8
	cfg.ShippingID = "express"

	b := ComputePrice(cfg, cat, BindingOnly)

	assert.Equal(t, BindingOnly, b.Mode)
	assert.Equal(t, 46.00, b.Total)
	assert.Zero(t, b.PaperPrice)
	assert.Zero(t, b.ShippingPrice)
	assert.Equal(t, 1, b.DiscountedCopies)
}

func TestComputePrice_ExtrasOnlyForHardcover(t *testing.T) {
	cat := catalog.Default()
	for _, binding := range cat.Bindings() {
		if binding.ID == catalog.HardcoverID {
			continue
		}
		cfg := Default()
		cfg.BindingID = binding.ID
		cfg.ShippingID = "standard"

		plain := ComputePrice(cfg, cat, FullConfiguration)

		cfg.SpineEmbossing = true
		cfg.BookCorners = true
		cfg.SpineText = "stale"
		extras := ComputePrice(cfg, cat, FullConfiguration)

		assert.Equal(t, plain.Total, extras.Total, binding.ID)
		assert.Zero(t, extras.ExtrasPrice, binding.ID)
		assert.Equal(t, 4.90, extras.ShippingPrice, binding.ID)
	}
}

func TestComputePrice_CornerColorIsCosmetic(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	cfg.BookCorners = true

	gold := ComputePrice(cfg, cat, FullConfiguration)
	cfg.CornerColor = "silver"
	silver := ComputePrice(cfg, cat, FullConfiguration)

	assert.Equal(t, gold.Total, silver.Total)
	assert.Equal(t, BookCornersPrice, silver.ExtrasPrice)
}

func TestComputePrice_UnknownIDsContributeZero(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = "leporello"
	cfg.PaperID = "papyrus"
	cfg.ShippingID = "drone"

	b := ComputePrice(cfg, cat, FullConfiguration)

	assert.Zero(t, b.BindingPrice)
	assert.Zero(t, b.PaperPrice)
	assert.Zero(t, b.ShippingPrice)
	assert.Zero(t, b.Total)
	assert.ElementsMatch(t, []Field{FieldBinding, FieldPaper, FieldShipping}, b.Unresolved)
}

func TestComputePrice_ReportsXXLLockout(t *testing.T) {
	cat := catalog.Default()
	cfg := Default()
	cfg.BindingID = "softcover-klassisch"
	cfg.PrintModeID = catalog.PrintSingle
	cfg.PageCount = 189

	b := ComputePrice(cfg, cat, FullConfiguration)
	assert.False(t, b.XXLRequired)
	assert.False(t, b.XXLUpgrade)

	cfg.PageCount = 190
	b = ComputePrice(cfg, cat, FullConfiguration)
	assert.True(t, b.XXLRequired)
	assert.True(t, b.XXLUpgrade)

	cfg.XXLUpgrade = false
	assert.True(t, EffectiveXXL(cfg, cat))

	cfg.BindingID = catalog.HardcoverID
	cfg.XXLUpgrade = true
	assert.False(t, EffectiveXXL(cfg, cat))
}

func TestEffectivePages(t *testing.T) {
	assert.Equal(t, 41, EffectivePages(81, catalog.PrintDouble))
	assert.Equal(t, 40, EffectivePages(80, catalog.PrintDouble))
	assert.Equal(t, 81, EffectivePages(81, catalog.PrintSingle))
	assert.Equal(t, 1, EffectivePages(1, catalog.PrintDouble))
	assert.Zero(t, EffectivePages(0, catalog.PrintDouble))
}

func TestDiscountedCopies(t *testing.T) {
	cases := map[int]int{-8: 0, -1: 0, 0: 0, 1: 1, 3: 3, 4: 3, 5: 4, 7: 6, 8: 6, 9: 7, 12: 9}
	for copies, want := range cases {
		assert.Equal(t, want, DiscountedCopies(copies), "copies=%d", copies)
	}
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 133.60, Round2(42.90*3+4.90))
}

func TestModeForStep(t *testing.T) {
	assert.Equal(t, BindingOnly, ModeForStep(StepBinding))
	assert.Equal(t, FullConfiguration, ModeForStep(StepDetails))
	assert.Equal(t, FullConfiguration, ModeForStep(StepReview))
}

func TestEngine_LogsCatalogMisses(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := NewEngine(catalog.Default(), zap.New(core))

	cfg := Default()
	cfg.BindingID = catalog.HardcoverID
	cfg.ShippingID = "drone"
	b := engine.Price(cfg, FullConfiguration)

	require.Equal(t, []Field{FieldShipping}, b.Unresolved)
	entries := logs.FilterField(zap.String("id", "drone")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "shipping", entries[0].ContextMap()["field"])
}
