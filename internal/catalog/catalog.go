package catalog

import "slices"

// CATALOG OF BINDINGS, PAPERS AND SHIPPING

type PaperWeight string

const (
	Weight80  PaperWeight = "80g"
	Weight120 PaperWeight = "120g"
)

type Format string

const (
	FormatA4 Format = "A4"
	FormatA5 Format = "A5"
)

const (
	PrintSingle = "single"
	PrintDouble = "double"
)

// HardcoverID is the only binding whose extras (spine embossing, book
// corners) are priced, and the only one that ships for free.
const HardcoverID = "hardcover"

// PageTable maps paper weight and print mode to a page count.
type PageTable map[PaperWeight]map[string]int

func (t PageTable) Lookup(weight PaperWeight, printMode string) (int, bool) {
	byMode, ok := t[weight]
	if !ok {
		return 0, false
	}
	n, ok := byMode[printMode]
	return n, ok
}

type Constraints struct {
	Formats           []Format      `json:"formats"`
	PaperWeights      []PaperWeight `json:"paperWeights"`
	PrintModes        []string      `json:"printModes"`
	PageLimits        PageTable     `json:"pageLimits"`
	SupportsXXL       bool          `json:"supportsXXL"`
	XXLThresholds     PageTable     `json:"xxlThresholds,omitempty"`
	SupportsCorners   bool          `json:"supportsCorners"`
	SupportsSpineText bool          `json:"supportsSpineText"`
	CoverColors       []string      `json:"coverColors"`
	EmbossingColors   []string      `json:"embossingColors,omitempty"`
}

func (c Constraints) SupportsFormat(f Format) bool { return slices.Contains(c.Formats, f) }
func (c Constraints) SupportsWeight(w PaperWeight) bool { return slices.Contains(c.PaperWeights, w) }
func (c Constraints) SupportsPrintMode(mode string) bool { return slices.Contains(c.PrintModes, mode) }
func (c Constraints) AllowsCoverColor(color string) bool { return slices.Contains(c.CoverColors, color) }
func (c Constraints) AllowsEmbossingColor(color string) bool {
	return slices.Contains(c.EmbossingColors, color)
}

type Binding struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Constraints
}

type Paper struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Weight       PaperWeight `json:"weight"`
	PricePerPage float64     `json:"pricePerPage"`

	// MaxPages is the flat per-paper ceiling shown in marketing copy.
	// Validation uses the binding page table instead.
	MaxPages int `json:"maxPages"`
}

type PrintMode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Cover struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Logo         string  `json:"logo,omitempty"`
	Price        float64 `json:"price"`
	RequiresLogo bool    `json:"requiresLogo,omitempty"`
}

type Shipping struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DeliveryTime string  `json:"deliveryTime"`
}

type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Catalog is immutable after New returns. Lookups on unknown ids report
// false so pricing can treat a missing entry as a zero contribution.
type Catalog struct {
	bindings        []Binding
	papers          []Paper
	printModes      []PrintMode
	covers          []Cover
	shipping        []Shipping
	coverColors     []Color
	embossingColors []Color

	bindingByID    map[string]Binding
	paperByID      map[string]Paper
	printByID      map[string]PrintMode
	coverByID      map[string]Cover
	shippingByID   map[string]Shipping
	coverColorByID map[string]Color
	embossingByID  map[string]Color
}

type Entries struct {
	Bindings        []Binding
	Papers          []Paper
	PrintModes      []PrintMode
	Covers          []Cover
	Shipping        []Shipping
	CoverColors     []Color
	EmbossingColors []Color
}

func New(e Entries) *Catalog {
	c := &Catalog{
		bindings:        slices.Clone(e.Bindings),
		papers:          slices.Clone(e.Papers),
		printModes:      slices.Clone(e.PrintModes),
		covers:          slices.Clone(e.Covers),
		shipping:        slices.Clone(e.Shipping),
		coverColors:     slices.Clone(e.CoverColors),
		embossingColors: slices.Clone(e.EmbossingColors),
		bindingByID:     make(map[string]Binding, len(e.Bindings)),
		paperByID:       make(map[string]Paper, len(e.Papers)),
		printByID:       make(map[string]PrintMode, len(e.PrintModes)),
		coverByID:       make(map[string]Cover, len(e.Covers)),
		shippingByID:    make(map[string]Shipping, len(e.Shipping)),
		coverColorByID:  make(map[string]Color, len(e.CoverColors)),
		embossingByID:   make(map[string]Color, len(e.EmbossingColors)),
	}
	for _, b := range c.bindings {
		c.bindingByID[b.ID] = b
	}
	for _, p := range c.papers {
		c.paperByID[p.ID] = p
	}
	for _, p := range c.printModes {
		c.printByID[p.ID] = p
	}
	for _, cv := range c.covers {
		c.coverByID[cv.ID] = cv
	}
	for _, s := range c.shipping {
		c.shippingByID[s.ID] = s
	}
	for _, col := range c.coverColors {
		c.coverColorByID[col.ID] = col
	}
	for _, col := range c.embossingColors {
		c.embossingByID[col.ID] = col
	}
	return c
}

func (c *Catalog) Binding(id string) (Binding, bool) {
	b, ok := c.bindingByID[id]
	return b, ok
}

func (c *Catalog) Paper(id string) (Paper, bool) {
	p, ok := c.paperByID[id]
	return p, ok
}

func (c *Catalog) PrintMode(id string) (PrintMode, bool) {
	p, ok := c.printByID[id]
	return p, ok
}

func (c *Catalog) Cover(id string) (Cover, bool) {
	cv, ok := c.coverByID[id]
	return cv, ok
}

func (c *Catalog) Shipping(id string) (Shipping, bool) {
	s, ok := c.shippingByID[id]
	return s, ok
}

func (c *Catalog) CoverColor(id string) (Color, bool) {
	col, ok := c.coverColorByID[id]
	return col, ok
}

func (c *Catalog) EmbossingColor(id string) (Color, bool) {
	col, ok := c.embossingByID[id]
	return col, ok
}

// PageLimit returns the ceiling for the (binding, paper weight, print mode)
// triple. The paper id is resolved to its weight first.
func (c *Catalog) PageLimit(bindingID, paperID, printID string) (int, bool) {
	b, ok := c.Binding(bindingID)
	if !ok {
		return 0, false
	}
	p, ok := c.Paper(paperID)
	if !ok {
		return 0, false
	}
	return b.PageLimits.Lookup(p.Weight, printID)
}

// XXLThreshold returns the page count from which the XXL upgrade is
// mandatory. Bindings without XXL support report false.
func (c *Catalog) XXLThreshold(bindingID, paperID, printID string) (int, bool) {
	b, ok := c.Binding(bindingID)
	if !ok || !b.SupportsXXL {
		return 0, false
	}
	p, ok := c.Paper(paperID)
	if !ok {
		return 0, false
	}
	return b.XXLThresholds.Lookup(p.Weight, printID)
}

func (c *Catalog) Bindings() []Binding { return slices.Clone(c.bindings) }
func (c *Catalog) Papers() []Paper { return slices.Clone(c.papers) }
func (c *Catalog) PrintModes() []PrintMode { return slices.Clone(c.printModes) }
func (c *Catalog) Covers() []Cover { return slices.Clone(c.covers) }
func (c *Catalog) ShippingOptions() []Shipping { return slices.Clone(c.shipping) }
func (c *Catalog) CoverColors() []Color { return slices.Clone(c.coverColors) }
func (c *Catalog) EmbossingColors() []Color { return slices.Clone(c.embossingColors) }
