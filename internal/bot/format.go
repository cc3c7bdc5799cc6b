package bot

import (
	"fmt"
	"strings"

	"pocat/internal/catalog"
	"pocat/internal/configurator"
)

var stepTitles = map[configurator.Step]string{
	configurator.StepBinding:   "1/5 Binding",
	configurator.StepDetails:   "2/5 Paper and pages",
	configurator.StepCover:     "3/5 Cover",
	configurator.StepUpload:    "4/5 Upload",
	configurator.StepReview:    "5/5 Review and order",
	configurator.StepConfirmed: "Order placed",
}

var stepHints = map[configurator.Step]string{
	configurator.StepBinding: "Choose how your work should be bound.",
	configurator.StepDetails: "Pick format, paper and print mode, then enter the page count.",
	configurator.StepCover:   "Choose the cover logo. For your own logo, send it as a photo.",
	configurator.StepUpload:  "Send your document as a file (PDF preferred).",
	configurator.StepReview:  "Check your order, choose copies and shipping, then place the order.",
}

func formatEUR(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

// renderStep builds the message shown after every event.
func renderStep(cat *catalog.Catalog, s *configurator.Session, snap configurator.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📘 %s\n", stepTitles[snap.Step])
	if hint, ok := stepHints[snap.Step]; ok {
		sb.WriteString(hint + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(formatSummary(cat, snap.Configuration, s.Attachments))

	if snap.Price.Mode == configurator.BindingOnly {
		fmt.Fprintf(&sb, "\n💰 Binding total: %s", formatEUR(snap.Price.Total))
	} else {
		sb.WriteString("\n" + formatPrice(snap.Price))
	}

	if !snap.Validation.Valid {
		sb.WriteString("\n\n" + formatReasons(snap.Validation))
	}
	if snap.ConfirmationID != "" {
		fmt.Fprintf(&sb, "\n\n✅ Order number: %s", snap.ConfirmationID)
	}
	return sb.String()
}

func formatSummary(cat *catalog.Catalog, cfg configurator.Configuration, att configurator.Attachments) string {
	if !cfg.HasBinding() {
		return "No binding selected yet.\n"
	}

	var sb strings.Builder
	binding, _ := cat.Binding(cfg.BindingID)
	fmt.Fprintf(&sb, "Binding: %s\n", nameOr(binding.Name, cfg.BindingID))

	if cfg.IsHardcover() {
		if cfg.SpineEmbossing {
			text := cfg.SpineText
			if text == "" {
				text = "(no text yet)"
			}
			fmt.Fprintf(&sb, "Spine embossing: %s, %s\n", text, colorName(cat.EmbossingColor, cfg.EmbossingColor))
		}
		if cfg.BookCorners {
			fmt.Fprintf(&sb, "Book corners: %s\n", cfg.CornerColor)
		}
	}

	paper, _ := cat.Paper(cfg.PaperID)
	mode, _ := cat.PrintMode(cfg.PrintModeID)
	fmt.Fprintf(&sb, "Format: %s, %s, %s\n", cfg.Format, nameOr(paper.Name, cfg.PaperID), nameOr(mode.Name, cfg.PrintModeID))
	fmt.Fprintf(&sb, "Pages: %d\n", cfg.PageCount)
	if len(binding.CoverColors) > 0 {
		fmt.Fprintf(&sb, "Cover color: %s\n", colorName(cat.CoverColor, cfg.CoverColor))
	}
	if configurator.EffectiveXXL(cfg, cat) {
		sb.WriteString("XXL binding: yes\n")
	}

	cover, _ := cat.Cover(cfg.CoverID)
	fmt.Fprintf(&sb, "Cover: %s\n", nameOr(cover.Title, cfg.CoverID))
	if cfg.CoverNote != "" {
		fmt.Fprintf(&sb, "Cover note: %s\n", cfg.CoverNote)
	}

	shipping, _ := cat.Shipping(cfg.ShippingID)
	fmt.Fprintf(&sb, "Copies: %d, %s\n", cfg.Copies, nameOr(shipping.Name, cfg.ShippingID))
	fmt.Fprintf(&sb, "Document: %s\n", yesNo(att.Document))
	if cover.RequiresLogo {
		fmt.Fprintf(&sb, "Logo: %s\n", yesNo(att.CustomLogo))
	}
	return sb.String()
}

func formatPrice(b configurator.PriceBreakdown) string {
	var sb strings.Builder
	sb.WriteString("💰 Price\n")
	fmt.Fprintf(&sb, "- Paper (%d sheets): %s\n", b.EffectivePages, formatEUR(b.PaperPrice))
	fmt.Fprintf(&sb, "- Binding: %s\n", formatEUR(b.BindingPrice))
	if b.CoverPrice > 0 {
		fmt.Fprintf(&sb, "- Cover: %s\n", formatEUR(b.CoverPrice))
	}
	if b.ExtrasPrice > 0 {
		fmt.Fprintf(&sb, "- Extras: %s\n", formatEUR(b.ExtrasPrice))
	}
	fmt.Fprintf(&sb, "- Per copy: %s\n", formatEUR(b.PricePerUnit))
	if b.DiscountedCopies < b.Copies {
		fmt.Fprintf(&sb, "- Volume discount: %d copies for the price of %d\n", b.Copies, b.DiscountedCopies)
	}
	fmt.Fprintf(&sb, "- Shipping: %s\n", formatEUR(b.ShippingPrice))
	fmt.Fprintf(&sb, "Total: %s", formatEUR(b.Total))
	return sb.String()
}

func formatReasons(r configurator.Result) string {
	lines := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		lines = append(lines, "⚠️ "+reason.Message)
	}
	return strings.Join(lines, "\n")
}

func colorName(lookup func(string) (catalog.Color, bool), id string) string {
	if c, ok := lookup(id); ok {
		return c.Name
	}
	return id
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func yesNo(v bool) string {
	if v {
		return "received"
	}
	return "missing"
}
