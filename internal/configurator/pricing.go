package configurator

import (
	"math"

	"pocat/internal/catalog"
)

const (
	SpineEmbossingPrice = 15.00
	BookCornersPrice    = 6.00
)

// PriceBreakdown is a projection of a Configuration over the catalog. Only
// Total is rounded; every other money term keeps full precision.
type PriceBreakdown struct {
	Mode                PricingMode `json:"mode"`
	PaperPrice          float64     `json:"paperPrice"`
	BindingPrice        float64     `json:"bindingPrice"`
	CoverPrice          float64     `json:"coverPrice"`
	ExtrasPrice         float64     `json:"extrasPrice"`
	ShippingPrice       float64     `json:"shippingPrice"`
	EffectivePages      int         `json:"effectivePages"`
	Copies              int         `json:"copies"`
	DiscountedCopies    int         `json:"discountedCopies"`
	PricePerUnit        float64     `json:"pricePerUnit"`
	TotalBeforeRounding float64     `json:"totalBeforeRounding"`
	Total               float64     `json:"total"`
	XXLUpgrade          bool        `json:"xxlUpgrade"`
	XXLRequired         bool        `json:"xxlRequired"`

	// Unresolved lists the fields whose ids were not found in the catalog.
	// Each of them contributed zero.
	Unresolved []Field `json:"unresolved,omitempty"`
}

// EffectivePages is the number of printed sheets that are charged.
func EffectivePages(pageCount int, printModeID string) int {
	if pageCount <= 0 {
		return 0
	}
	if printModeID == catalog.PrintDouble {
		return (pageCount + 1) / 2
	}
	return pageCount
}

// DiscountedCopies bills every complete group of four copies as three.
// Negative counts bill nothing.
func DiscountedCopies(copies int) int {
	copies = max(copies, 0)
	if copies < 4 {
		return copies
	}
	return copies/4*3 + copies%4
}

// Round2 rounds to the cent, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func extrasPrice(cfg Configuration) float64 {
	if !cfg.IsHardcover() {
		return 0
	}
	var extras float64
	if cfg.SpineEmbossing {
		extras += SpineEmbossingPrice
	}
	if cfg.BookCorners {
		extras += BookCornersPrice
	}
	return extras
}

// ComputePrice prices cfg. With no binding selected the breakdown is all
// zero. In BindingOnly mode only the binding and its extras are counted.
func ComputePrice(cfg Configuration, cat *catalog.Catalog, mode PricingMode) PriceBreakdown {
	b := PriceBreakdown{Mode: mode}
	if !cfg.HasBinding() {
		return b
	}

	if binding, found := cat.Binding(cfg.BindingID); found {
		b.BindingPrice = binding.Price
	} else {
		b.Unresolved = append(b.Unresolved, FieldBinding)
	}
	b.ExtrasPrice = extrasPrice(cfg)
	b.XXLRequired = XXLRequired(cfg, cat)
	b.XXLUpgrade = EffectiveXXL(cfg, cat)

	if mode == BindingOnly {
		b.Copies = 1
		b.DiscountedCopies = 1
		b.PricePerUnit = b.BindingPrice + b.ExtrasPrice
		b.TotalBeforeRounding = b.PricePerUnit
		b.Total = Round2(b.TotalBeforeRounding)
		return b
	}

	b.EffectivePages = EffectivePages(cfg.PageCount, cfg.PrintModeID)
	if _, found := cat.PrintMode(cfg.PrintModeID); !found {
		b.Unresolved = append(b.Unresolved, FieldPrintMode)
	}

	if paper, found := cat.Paper(cfg.PaperID); found {
		b.PaperPrice = paper.PricePerPage * float64(b.EffectivePages)
	} else {
		b.Unresolved = append(b.Unresolved, FieldPaper)
	}

	if cover, found := cat.Cover(cfg.CoverID); found {
		b.CoverPrice = cover.Price
	} else {
		b.Unresolved = append(b.Unresolved, FieldCover)
	}

	if shipping, found := cat.Shipping(cfg.ShippingID); found {
		if !cfg.IsHardcover() {
			b.ShippingPrice = shipping.Price
		}
	} else {
		b.Unresolved = append(b.Unresolved, FieldShipping)
	}

	b.Copies = max(cfg.Copies, 0)
	b.DiscountedCopies = DiscountedCopies(b.Copies)
	b.PricePerUnit = b.PaperPrice + b.BindingPrice + b.CoverPrice + b.ExtrasPrice
	b.TotalBeforeRounding = b.PricePerUnit*float64(b.DiscountedCopies) + b.ShippingPrice
	b.Total = Round2(b.TotalBeforeRounding)

	return b
}
