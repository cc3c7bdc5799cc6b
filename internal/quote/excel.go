package quote

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pocat/internal/catalog"
	"pocat/internal/configurator"
)

const SheetName = "Quote"

type Input struct {
	Configuration configurator.Configuration
	Price         configurator.PriceBreakdown
	Reference     string
	CreatedAt     time.Time
}

type row struct {
	label string
	value any
}

// Export renders the configuration and its price breakdown as an xlsx
// workbook.
func Export(cat *catalog.Catalog, in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	line := 1
	write := func(r row, style int) error {
		a, _ := excelize.CoordinatesToCellName(1, line)
		b, _ := excelize.CoordinatesToCellName(2, line)
		if err := f.SetCellValue(SheetName, a, r.label); err != nil {
			return err
		}
		if r.value != nil {
			if err := f.SetCellValue(SheetName, b, r.value); err != nil {
				return err
			}
		}
		if style != 0 {
			if err := f.SetCellStyle(SheetName, b, b, style); err != nil {
				return err
			}
		}
		line++
		return nil
	}
	section := func(title string, rows []row, style int) error {
		a, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetCellValue(SheetName, a, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, a, a, bold); err != nil {
			return err
		}
		line++
		for _, r := range rows {
			if err := write(r, style); err != nil {
				return err
			}
		}
		line++
		return nil
	}

	header := []row{
		{"Reference", in.Reference},
		{"Created", in.CreatedAt.Format("2006-01-02 15:04")},
	}
	if err := section("PoCat quote", header, 0); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := section("Configuration", configurationRows(cat, in.Configuration, in.Price), 0); err != nil {
		return nil, fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := section("Price", priceRows(in.Price), money); err != nil {
		return nil, fmt.Errorf("failed to write price: %w", err)
	}

	a, _ := excelize.CoordinatesToCellName(1, line)
	b, _ := excelize.CoordinatesToCellName(2, line)
	_ = f.SetCellValue(SheetName, a, "Total")
	_ = f.SetCellValue(SheetName, b, in.Price.Total)
	_ = f.SetCellStyle(SheetName, a, a, bold)
	_ = f.SetCellStyle(SheetName, b, b, money)
	_ = f.SetColWidth(SheetName, "A", "A", 28)
	_ = f.SetColWidth(SheetName, "B", "B", 36)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func configurationRows(cat *catalog.Catalog, cfg configurator.Configuration, price configurator.PriceBreakdown) []row {
	rows := []row{
		{"Binding", bindingName(cat, cfg.BindingID)},
		{"Format", string(cfg.Format)},
		{"Paper", paperName(cat, cfg.PaperID)},
		{"Print", printName(cat, cfg.PrintModeID)},
		{"Pages", cfg.PageCount},
		{"Copies", cfg.Copies},
		{"Cover", coverName(cat, cfg.CoverID)},
		{"Shipping", shippingName(cat, cfg.ShippingID)},
	}
	if cfg.CoverNote != "" {
		rows = append(rows, row{"Cover note", cfg.CoverNote})
	}
	if binding, ok := cat.Binding(cfg.BindingID); ok && len(binding.CoverColors) > 0 {
		rows = append(rows, row{"Cover color", colorName(cat.CoverColor, cfg.CoverColor)})
	}
	if cfg.IsHardcover() {
		if cfg.SpineEmbossing {
			rows = append(rows,
				row{"Spine text", cfg.SpineText},
				row{"Embossing color", colorName(cat.EmbossingColor, cfg.EmbossingColor)},
			)
		}
		if cfg.BookCorners {
			rows = append(rows, row{"Book corners", cfg.CornerColor})
		}
	}
	if price.XXLUpgrade {
		rows = append(rows, row{"XXL", "yes"})
	}
	return rows
}

func priceRows(p configurator.PriceBreakdown) []row {
	return []row{
		{"Paper", p.PaperPrice},
		{"Binding", p.BindingPrice},
		{"Cover", p.CoverPrice},
		{"Extras", p.ExtrasPrice},
		{"Price per copy", p.PricePerUnit},
		{"Billed copies", p.DiscountedCopies},
		{"Shipping", p.ShippingPrice},
	}
}

func bindingName(cat *catalog.Catalog, id string) string {
	if b, ok := cat.Binding(id); ok {
		return b.Name
	}
	return id
}

func paperName(cat *catalog.Catalog, id string) string {
	if p, ok := cat.Paper(id); ok {
		return p.Name
	}
	return id
}

func printName(cat *catalog.Catalog, id string) string {
	if p, ok := cat.PrintMode(id); ok {
		return p.Name
	}
	return id
}

func coverName(cat *catalog.Catalog, id string) string {
	if c, ok := cat.Cover(id); ok {
		return c.Title
	}
	return id
}

func shippingName(cat *catalog.Catalog, id string) string {
	if s, ok := cat.Shipping(id); ok {
		return s.Name
	}
	return id
}

func colorName(lookup func(string) (catalog.Color, bool), id string) string {
	if c, ok := lookup(id); ok {
		return c.Name
	}
	return id
}
