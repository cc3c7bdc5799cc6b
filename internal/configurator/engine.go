package configurator

import (
	"go.uber.org/zap"

	"pocat/internal/catalog"
)

// Engine binds the pure pricing and validation functions to one catalog and
// reports catalog misses to the log.
type Engine struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewEngine(cat *catalog.Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: cat, logger: logger}
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) Price(cfg Configuration, mode PricingMode) PriceBreakdown {
	b := ComputePrice(cfg, e.catalog, mode)
	e.logUnresolved(cfg, b)
	return b
}

func (e *Engine) Validate(step Step, cfg Configuration, att Attachments) Result {
	return ValidateStep(step, cfg, e.catalog, att)
}

func (e *Engine) Snapshot(s *Session) Snapshot {
	snap := s.Snapshot(e.catalog)
	e.logUnresolved(s.Config, snap.Price)
	return snap
}

func (e *Engine) logUnresolved(cfg Configuration, b PriceBreakdown) {
	for _, field := range b.Unresolved {
		e.logger.Warn("catalog entry not found, priced as zero",
			zap.String("field", string(field)),
			zap.String("id", fieldValue(cfg, field)),
		)
	}
}

func fieldValue(cfg Configuration, field Field) string {
	switch field {
	case FieldBinding:
		return cfg.BindingID
	case FieldPaper:
		return cfg.PaperID
	case FieldPrintMode:
		return cfg.PrintModeID
	case FieldCover:
		return cfg.CoverID
	case FieldShipping:
		return cfg.ShippingID
	default:
		return ""
	}
}
