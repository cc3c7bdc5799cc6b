package configurator

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocat/internal/catalog"
)

func TestApply_ChangesOneField(t *testing.T) {
	base := Default()

	got := Apply(base, FieldPageCount, " 120 ")
	want := base
	want.PageCount = 120
	assert.Equal(t, want, got)

	assert.Equal(t, base, Apply(base, Field("colour"), "red"))
}

func TestApply_Coercions(t *testing.T) {
	cfg := Default()

	assert.Zero(t, Apply(cfg, FieldPageCount, "abc").PageCount)
	assert.Zero(t, Apply(cfg, FieldCopies, "-2").Copies)
	assert.True(t, Apply(cfg, FieldSpineEmbossing, "on").SpineEmbossing)
	assert.False(t, Apply(cfg, FieldBookCorners, "maybe").BookCorners)
	assert.Equal(t, catalog.FormatA5, Apply(cfg, FieldFormat, "a5").Format)
	assert.False(t, Apply(Apply(cfg, FieldBinding, "hardcover"), FieldBinding, "none").HasBinding())

	long := Apply(cfg, FieldSpineText, "Eine sehr lange Rückenprägung die nicht auf den Buchrücken passt")
	assert.Len(t, []rune(long.SpineText), MaxSpineTextLength)
}

func TestApply_BindingChangeKeepsExtras(t *testing.T) {
	cfg := Default()
	cfg = Apply(cfg, FieldBinding, catalog.HardcoverID)
	cfg = Apply(cfg, FieldSpineEmbossing, "true")
	cfg = Apply(cfg, FieldSpineText, "Thesis")
	cfg = Apply(cfg, FieldBinding, "softcover-karton")

	assert.True(t, cfg.SpineEmbossing)
	assert.Equal(t, "Thesis", cfg.SpineText)
}

func TestSession_StepGating(t *testing.T) {
	cat := catalog.Default()
	s := NewSession()

	r := s.Next(cat)
	assert.False(t, r.Valid)
	assert.Equal(t, StepBinding, s.Step)

	s.Set(FieldBinding, "softcover-klassisch")
	require.True(t, s.Next(cat).Valid)
	assert.Equal(t, StepDetails, s.Step)

	s.Set(FieldPageCount, "401")
	s.Set(FieldPrintMode, catalog.PrintSingle)
	assert.False(t, s.Next(cat).Valid)
	assert.Equal(t, StepDetails, s.Step)

	s.Set(FieldPageCount, "400")
	require.True(t, s.Next(cat).Valid)
	require.True(t, s.Next(cat).Valid)
	assert.Equal(t, StepUpload, s.Step)

	assert.False(t, s.Next(cat).Valid)
	s.Attachments.Document = true
	require.True(t, s.Next(cat).Valid)
	assert.Equal(t, StepReview, s.Step)

	s.Next(cat)
	assert.Equal(t, StepReview, s.Step)

	assert.True(t, s.Back())
	assert.Equal(t, StepUpload, s.Step)
}

func TestSession_GoTo(t *testing.T) {
	cat := catalog.Default()
	s := NewSession()

	r := s.GoTo(StepCover, cat)
	assert.False(t, r.Valid)
	assert.Equal(t, StepBinding, s.Step)

	s.Set(FieldBinding, catalog.HardcoverID)
	r = s.GoTo(StepReview, cat)
	assert.True(t, r.Has(FieldDocument))
	assert.Equal(t, StepUpload, s.Step)

	assert.True(t, s.GoTo(StepBinding, cat).Valid)
	assert.Equal(t, StepBinding, s.Step)
	assert.False(t, s.GoTo(StepConfirmed, cat).Valid)
}

func TestSession_SnapshotUsesStepPricing(t *testing.T) {
	cat := catalog.Default()
	s := NewSession()
	s.Set(FieldBinding, "softcover-klassisch")
	s.Set(FieldShipping, "standard")

	snap := s.Snapshot(cat)
	assert.Equal(t, BindingOnly, snap.Price.Mode)
	assert.Equal(t, 12.90, snap.Price.Total)

	s.Next(cat)
	snap = s.Snapshot(cat)
	assert.Equal(t, FullConfiguration, snap.Price.Mode)
	assert.Equal(t, 25.80, snap.Price.Total)
}

func TestSession_Submit(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	calls := 0
	sub := SubmitterFunc(func(_ context.Context, order Order) (string, error) {
		calls++
		assert.Equal(t, FullConfiguration, order.Price.Mode)
		return "PoCat-123456", nil
	})

	s := NewSession()
	_, err := s.Submit(ctx, sub, cat)
	require.ErrorIs(t, err, ErrNotSubmittable)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.True(t, rejected.Result.Has(FieldBinding))
	assert.True(t, rejected.Result.Has(FieldDocument))
	assert.Zero(t, calls)

	s.Set(FieldBinding, "spiralbindung-plastik")
	s.Attachments.Document = true
	id, err := s.Submit(ctx, sub, cat)
	require.NoError(t, err)
	assert.Equal(t, "PoCat-123456", id)
	assert.Equal(t, StepConfirmed, s.Step)

	again, err := s.Submit(ctx, sub, cat)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, calls)

	assert.False(t, s.Set(FieldCopies, "3"))
	assert.False(t, s.Back())

	s.Reset()
	assert.Equal(t, NewSession(), s)
}

func TestSession_SubmitPropagatesBackendError(t *testing.T) {
	boom := errors.New("backend down")
	s := NewSession()
	s.Set(FieldBinding, catalog.HardcoverID)
	s.Attachments.Document = true

	_, err := s.Submit(context.Background(), SubmitterFunc(func(context.Context, Order) (string, error) {
		return "", boom
	}), catalog.Default())

	require.ErrorIs(t, err, boom)
	assert.False(t, s.Confirmed())
}

func TestSimulatedSubmitter(t *testing.T) {
	pattern := regexp.MustCompile(`^PoCat-[1-9]\d{5}$`)
	for i := 0; i < 50; i++ {
		id, err := SimulatedSubmitter{}.SubmitOrder(context.Background(), Order{})
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}

	id, err := SimulatedSubmitter{Prefix: "TEST"}.SubmitOrder(context.Background(), Order{})
	require.NoError(t, err)
	assert.Regexp(t, `^TEST-\d{6}$`, id)
}

func TestStep_Text(t *testing.T) {
	var s Step
	require.NoError(t, s.UnmarshalText([]byte("upload")))
	assert.Equal(t, StepUpload, s)
	assert.Error(t, s.UnmarshalText([]byte("payment")))

	text, err := StepReview.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "review", string(text))
}
