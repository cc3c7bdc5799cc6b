package configurator

import "fmt"

// Step is a configurator screen. Steps advance in declaration order.
type Step int

const (
	StepBinding Step = iota + 1
	StepDetails
	StepCover
	StepUpload
	StepReview
	StepConfirmed
)

var stepNames = map[Step]string{
	StepBinding:   "binding",
	StepDetails:   "details",
	StepCover:     "cover",
	StepUpload:    "upload",
	StepReview:    "review",
	StepConfirmed: "confirmed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func ParseStep(name string) (Step, bool) {
	for s, n := range stepNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(text []byte) error {
	parsed, ok := ParseStep(string(text))
	if !ok {
		return fmt.Errorf("unknown step %q", string(text))
	}
	*s = parsed
	return nil
}

// PricingMode selects how much of the configuration feeds the price.
type PricingMode int

const (
	// BindingOnly prices the binding and its extras so the first screen
	// can show a running total before paper and shipping are chosen.
	BindingOnly PricingMode = iota
	FullConfiguration
)

func (m PricingMode) String() string {
	if m == BindingOnly {
		return "binding_only"
	}
	return "full"
}

func (m PricingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PricingMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "binding_only":
		*m = BindingOnly
	case "full":
		*m = FullConfiguration
	default:
		return fmt.Errorf("unknown pricing mode %q", string(text))
	}
	return nil
}

func ModeForStep(s Step) PricingMode {
	if s <= StepBinding {
		return BindingOnly
	}
	return FullConfiguration
}
