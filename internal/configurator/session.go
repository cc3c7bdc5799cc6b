package configurator

import (
	"context"

	"pocat/internal/catalog"
)

// Session is one customer's walk through the configurator. It is owned by a
// single writer; callers that share it must serialize access.
type Session struct {
	Config         Configuration `json:"configuration"`
	Step           Step          `json:"step"`
	Attachments    Attachments   `json:"attachments"`
	ConfirmationID string        `json:"confirmationId,omitempty"`
}

// Snapshot is what a front end renders after every event.
type Snapshot struct {
	Configuration  Configuration  `json:"configuration"`
	Step           Step           `json:"step"`
	Price          PriceBreakdown `json:"price"`
	Validation     Result         `json:"validation"`
	ConfirmationID string         `json:"confirmationId,omitempty"`
}

func NewSession() *Session {
	return &Session{Config: Default(), Step: StepBinding}
}

// ResumeSession starts at the first step with a restored configuration.
func ResumeSession(cfg Configuration) *Session {
	return &Session{Config: cfg, Step: StepBinding}
}

func (s *Session) Confirmed() bool {
	return s.ConfirmationID != ""
}

// Set applies one selection. A confirmed session is frozen until Reset.
func (s *Session) Set(field Field, value string) bool {
	if s.Confirmed() {
		return false
	}
	s.Config = Apply(s.Config, field, value)
	return true
}

// Next leaves the current step when its validator passes. Review is left
// only through Submit.
func (s *Session) Next(cat *catalog.Catalog) Result {
	result := ValidateStep(s.Step, s.Config, cat, s.Attachments)
	if result.Valid && s.Step < StepReview {
		s.Step++
	}
	return result
}

func (s *Session) Back() bool {
	if s.Step <= StepBinding || s.Confirmed() {
		return false
	}
	s.Step--
	return true
}

// GoTo jumps to target. Going back is always allowed; going forward requires
// every step in between to validate, and stops at the first one that fails.
func (s *Session) GoTo(target Step, cat *catalog.Catalog) Result {
	if s.Confirmed() || target < StepBinding || target > StepReview {
		return Result{Valid: false}
	}
	for s.Step < target {
		result := ValidateStep(s.Step, s.Config, cat, s.Attachments)
		if !result.Valid {
			return result
		}
		s.Step++
	}
	s.Step = target
	return ok()
}

// Reset starts a new order.
func (s *Session) Reset() {
	*s = *NewSession()
}

func (s *Session) Snapshot(cat *catalog.Catalog) Snapshot {
	return Snapshot{
		Configuration:  s.Config,
		Step:           s.Step,
		Price:          ComputePrice(s.Config, cat, ModeForStep(s.Step)),
		Validation:     ValidateStep(s.Step, s.Config, cat, s.Attachments),
		ConfirmationID: s.ConfirmationID,
	}
}

// Submit places the order once. A confirmed session returns its existing
// confirmation without calling sub again.
func (s *Session) Submit(ctx context.Context, sub Submitter, cat *catalog.Catalog) (string, error) {
	if s.Confirmed() {
		return s.ConfirmationID, nil
	}
	id, _, err := Submit(ctx, sub, cat, s.Config, s.Attachments)
	if err != nil {
		return "", err
	}
	s.ConfirmationID = id
	s.Step = StepConfirmed
	return id, nil
}
