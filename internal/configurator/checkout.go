package configurator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"pocat/internal/catalog"
)

// DefaultOrderPrefix starts every confirmation number.
const DefaultOrderPrefix = "PoCat"

var ErrNotSubmittable = errors.New("configuration is not ready for submission")

// RejectedError carries the validation result that blocked a submission.
// It matches ErrNotSubmittable with errors.Is.
type RejectedError struct {
	Result Result
}

func (e *RejectedError) Error() string {
	fields := make([]string, 0, len(e.Result.Reasons))
	for _, r := range e.Result.Reasons {
		fields = append(fields, string(r.Field))
	}
	return fmt.Sprintf("%s: %s", ErrNotSubmittable, strings.Join(fields, ", "))
}

func (e *RejectedError) Unwrap() error {
	return ErrNotSubmittable
}

// Order is what gets handed to a Submitter.
type Order struct {
	Configuration Configuration  `json:"configuration"`
	Price         PriceBreakdown `json:"price"`
	Attachments   Attachments    `json:"attachments"`
}

// Submitter places an order and returns its confirmation number.
type Submitter interface {
	SubmitOrder(ctx context.Context, order Order) (string, error)
}

type SubmitterFunc func(ctx context.Context, order Order) (string, error)

func (f SubmitterFunc) SubmitOrder(ctx context.Context, order Order) (string, error) {
	return f(ctx, order)
}

// SimulatedSubmitter confirms every order locally with a random
// "<prefix>-<6 digits>" number.
type SimulatedSubmitter struct {
	Prefix string
}

func (s SimulatedSubmitter) SubmitOrder(ctx context.Context, _ Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultOrderPrefix
	}
	return fmt.Sprintf("%s-%06d", prefix, 100000+rand.Intn(900000)), nil
}

// Submit validates cfg for submission and hands it to sub. An invalid
// configuration is refused with a *RejectedError and sub is not called.
func Submit(ctx context.Context, sub Submitter, cat *catalog.Catalog, cfg Configuration, att Attachments) (string, Order, error) {
	order := Order{
		Configuration: cfg,
		Price:         ComputePrice(cfg, cat, FullConfiguration),
		Attachments:   att,
	}

	if result := ValidateSubmission(cfg, cat, att); !result.Valid {
		return "", order, &RejectedError{Result: result}
	}

	id, err := sub.SubmitOrder(ctx, order)
	if err != nil {
		return "", order, fmt.Errorf("submit order: %w", err)
	}
	return id, order, nil
}
