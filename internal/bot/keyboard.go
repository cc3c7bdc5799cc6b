package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pocat/internal/catalog"
	"pocat/internal/configurator"
)

// BOT KEYBOARDS

var cornerColors = []catalog.Color{
	{ID: "gold", Name: "Gold"},
	{ID: "silver", Name: "Silber"},
}

func mark(selected bool, label string) string {
	if selected {
		return "✅ " + label
	}
	return label
}

func button(label, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func rows(buttons []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var out [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := min(perRow, len(buttons))
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return out
}

func navRow(back, next bool) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if back {
		row = append(row, button("⬅️ Back", actionBack))
	}
	if next {
		row = append(row, button("Next ➡️", actionNext))
	}
	return row
}

func colorButtons(field configurator.Field, colors []catalog.Color, selected string) []tgbotapi.InlineKeyboardButton {
	out := make([]tgbotapi.InlineKeyboardButton, 0, len(colors))
	for _, c := range colors {
		out = append(out, button(mark(c.ID == selected, c.Name), setData(field, c.ID)))
	}
	return out
}

func toggleButton(field configurator.Field, label string, on bool) tgbotapi.InlineKeyboardButton {
	state := "off"
	if on {
		state = "on"
	}
	return button(fmt.Sprintf("%s: %s", label, state), setData(field, strconv.FormatBool(!on)))
}

// stepKeyboard returns the inline keyboard for the session's current step.
func stepKeyboard(cat *catalog.Catalog, s *configurator.Session) tgbotapi.InlineKeyboardMarkup {
	var kb [][]tgbotapi.InlineKeyboardButton

	switch s.Step {
	case configurator.StepBinding:
		kb = bindingRows(cat, s.Config)
		kb = append(kb, navRow(false, true))
	case configurator.StepDetails:
		kb = detailRows(cat, s.Config)
		kb = append(kb, navRow(true, true))
	case configurator.StepCover:
		kb = coverRows(cat, s.Config)
		kb = append(kb, navRow(true, true))
	case configurator.StepUpload:
		kb = append(kb, navRow(true, true))
	case configurator.StepReview:
		kb = reviewRows(cat, s.Config)
		kb = append(kb, navRow(true, false))
	default:
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(button("🆕 New order", actionReset)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(kb...)
}

func bindingRows(cat *catalog.Catalog, cfg configurator.Configuration) [][]tgbotapi.InlineKeyboardButton {
	var kb [][]tgbotapi.InlineKeyboardButton
	for _, b := range cat.Bindings() {
		label := fmt.Sprintf("%s · %s", b.Name, formatEUR(b.Price))
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(button(mark(b.ID == cfg.BindingID, label), setData(configurator.FieldBinding, b.ID))))
	}

	binding, ok := cat.Binding(cfg.BindingID)
	if !ok {
		return kb
	}

	if binding.SupportsSpineText {
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(
			toggleButton(configurator.FieldSpineEmbossing, fmt.Sprintf("Spine embossing +%s", formatEUR(configurator.SpineEmbossingPrice)), cfg.SpineEmbossing)))
		if cfg.SpineEmbossing {
			kb = append(kb, tgbotapi.NewInlineKeyboardRow(button("✏️ Spine text", askData(configurator.FieldSpineText))))
			var palette []catalog.Color
			for _, id := range binding.EmbossingColors {
				if c, ok := cat.EmbossingColor(id); ok {
					palette = append(palette, c)
				}
			}
			kb = append(kb, rows(colorButtons(configurator.FieldEmbossingColor, palette, cfg.EmbossingColor), 3)...)
		}
	}
	if binding.SupportsCorners {
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(
			toggleButton(configurator.FieldBookCorners, fmt.Sprintf("Book corners +%s", formatEUR(configurator.BookCornersPrice)), cfg.BookCorners)))
		if cfg.BookCorners {
			kb = append(kb, tgbotapi.NewInlineKeyboardRow(colorButtons(configurator.FieldCornerColor, cornerColors, cfg.CornerColor)...))
		}
	}
	return kb
}

func detailRows(cat *catalog.Catalog, cfg configurator.Configuration) [][]tgbotapi.InlineKeyboardButton {
	binding, hasBinding := cat.Binding(cfg.BindingID)

	var formats, papers, modes []tgbotapi.InlineKeyboardButton
	for _, f := range []catalog.Format{catalog.FormatA4, catalog.FormatA5} {
		if hasBinding && !binding.SupportsFormat(f) {
			continue
		}
		formats = append(formats, button(mark(f == cfg.Format, string(f)), setData(configurator.FieldFormat, string(f))))
	}
	for _, p := range cat.Papers() {
		if hasBinding && !binding.SupportsWeight(p.Weight) {
			continue
		}
		papers = append(papers, button(mark(p.ID == cfg.PaperID, p.Name), setData(configurator.FieldPaper, p.ID)))
	}
	for _, m := range cat.PrintModes() {
		if hasBinding && !binding.SupportsPrintMode(m.ID) {
			continue
		}
		modes = append(modes, button(mark(m.ID == cfg.PrintModeID, m.Name), setData(configurator.FieldPrintMode, m.ID)))
	}

	kb := [][]tgbotapi.InlineKeyboardButton{formats}
	kb = append(kb, rows(papers, 1)...)
	kb = append(kb, modes)
	kb = append(kb, tgbotapi.NewInlineKeyboardRow(
		button(fmt.Sprintf("✏️ Page count (%d)", cfg.PageCount), askData(configurator.FieldPageCount))))

	if hasBinding && len(binding.CoverColors) > 0 {
		var palette []catalog.Color
		for _, id := range binding.CoverColors {
			if c, ok := cat.CoverColor(id); ok {
				palette = append(palette, c)
			}
		}
		kb = append(kb, rows(colorButtons(configurator.FieldCoverColor, palette, cfg.CoverColor), 4)...)
	}

	// A required XXL upgrade is locked on and gets no toggle.
	if hasBinding && binding.SupportsXXL && !configurator.XXLRequired(cfg, cat) {
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(toggleButton(configurator.FieldXXLUpgrade, "XXL binding", cfg.XXLUpgrade)))
	}
	return kb
}

func coverRows(cat *catalog.Catalog, cfg configurator.Configuration) [][]tgbotapi.InlineKeyboardButton {
	var kb [][]tgbotapi.InlineKeyboardButton
	for _, c := range cat.Covers() {
		label := c.Title
		if c.Price > 0 {
			label = fmt.Sprintf("%s +%s", c.Title, formatEUR(c.Price))
		}
		kb = append(kb, tgbotapi.NewInlineKeyboardRow(button(mark(c.ID == cfg.CoverID, label), setData(configurator.FieldCover, c.ID))))
	}
	kb = append(kb, tgbotapi.NewInlineKeyboardRow(button("✏️ Note for the cover", askData(configurator.FieldCoverNote))))
	return kb
}

func reviewRows(cat *catalog.Catalog, cfg configurator.Configuration) [][]tgbotapi.InlineKeyboardButton {
	var shipping []tgbotapi.InlineKeyboardButton
	for _, s := range cat.ShippingOptions() {
		label := fmt.Sprintf("%s · %s", s.Name, formatEUR(s.Price))
		shipping = append(shipping, button(mark(s.ID == cfg.ShippingID, label), setData(configurator.FieldShipping, s.ID)))
	}

	kb := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(fmt.Sprintf("✏️ Copies (%d)", cfg.Copies), askData(configurator.FieldCopies))),
	}
	kb = append(kb, rows(shipping, 1)...)
	kb = append(kb,
		tgbotapi.NewInlineKeyboardRow(button("📄 Quote as Excel", actionQuote)),
		tgbotapi.NewInlineKeyboardRow(button("✅ Place order", actionSubmit)),
	)
	return kb
}
