package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pocat/internal/catalog"
	"pocat/internal/configurator"
	"pocat/internal/quote"
)

const (
	clientIDHeader = "X-Client-ID"
	maxBodyBytes   = 1 << 20
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RateLimiter reports whether subject may perform one more submission.
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

type Handler struct {
	engine    *configurator.Engine
	drafts    *configurator.Drafts
	submitter configurator.Submitter
	limiter   RateLimiter
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler wires the HTTP surface. limiter may be nil.
func NewHandler(engine *configurator.Engine, drafts *configurator.Drafts, submitter configurator.Submitter, limiter RateLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		engine:    engine,
		drafts:    drafts,
		submitter: submitter,
		limiter:   limiter,
		logger:    logger,
		now:       time.Now,
	}
}

// configurationRequest is the body shared by the POST endpoints. Fields
// omitted from configuration keep their default values. An omitted step
// means the whole order.
type configurationRequest struct {
	Configuration json.RawMessage          `json:"configuration"`
	Step          configurator.Step        `json:"step"`
	Attachments   configurator.Attachments `json:"attachments"`
	Field         configurator.Field       `json:"field"`
	Value         string                   `json:"value"`
	Reference     string                   `json:"reference"`
}

func (req configurationRequest) config() (configurator.Configuration, error) {
	cfg := configurator.Default()
	if len(bytes.TrimSpace(req.Configuration)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(req.Configuration, &cfg); err != nil {
		return cfg, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

func (req configurationRequest) step() configurator.Step {
	if req.Step == 0 {
		return configurator.StepReview
	}
	return req.Step
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (configurationRequest, configurator.Configuration, bool) {
	var req configurationRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body", map[string]any{"reason": err.Error()})
		return req, configurator.Configuration{}, false
	}
	cfg, err := req.config()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid configuration", map[string]any{"reason": err.Error()})
		return req, cfg, false
	}
	return req, cfg, true
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogResponse struct {
	Bindings        []catalog.Binding   `json:"bindings"`
	Papers          []catalog.Paper     `json:"papers"`
	PrintModes      []catalog.PrintMode `json:"printModes"`
	Covers          []catalog.Cover     `json:"covers"`
	Shipping        []catalog.Shipping  `json:"shipping"`
	CoverColors     []catalog.Color     `json:"coverColors"`
	EmbossingColors []catalog.Color     `json:"embossingColors"`
}

func (h *Handler) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := h.engine.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Bindings:        cat.Bindings(),
		Papers:          cat.Papers(),
		PrintModes:      cat.PrintModes(),
		Covers:          cat.Covers(),
		Shipping:        cat.ShippingOptions(),
		CoverColors:     cat.CoverColors(),
		EmbossingColors: cat.EmbossingColors(),
	})
}

func (h *Handler) GetDefaultConfiguration(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"configuration": configurator.Default()})
}

// ApplySelection applies one field event and returns the resulting
// snapshot for the requested step.
func (h *Handler) ApplySelection(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "field is required", nil)
		return
	}

	session := &configurator.Session{Config: cfg, Step: req.step(), Attachments: req.Attachments}
	session.Set(req.Field, req.Value)
	writeJSON(w, http.StatusOK, h.engine.Snapshot(session))
}

func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Price(cfg, configurator.ModeForStep(req.step())))
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Validate(req.step(), cfg, req.Attachments))
}

type orderResponse struct {
	OrderNumber string                      `json:"orderNumber"`
	Price       configurator.PriceBreakdown `json:"price"`
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	if result := configurator.ValidateSubmission(cfg, h.engine.Catalog(), req.Attachments); !result.Valid {
		writeRejected(w, result)
		return
	}

	subject := r.Header.Get(clientIDHeader)
	if subject == "" {
		subject = r.RemoteAddr
	}
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context(), subject)
		if err != nil {
			h.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many orders, please try again later", nil)
			return
		}
	}

	number, order, err := configurator.Submit(r.Context(), h.submitter, h.engine.Catalog(), cfg, req.Attachments)
	var rejected *configurator.RejectedError
	switch {
	case errors.As(err, &rejected):
		writeRejected(w, rejected.Result)
		return
	case err != nil:
		h.logger.Error("order submission failed", zap.String("client", subject), zap.Error(err))
		writeError(w, http.StatusBadGateway, codeBackend, "order could not be placed", nil)
		return
	}

	h.logger.Info("order placed",
		zap.String("order_number", number),
		zap.String("binding", cfg.BindingID),
		zap.Float64("total", order.Price.Total))
	writeJSON(w, http.StatusCreated, orderResponse{OrderNumber: number, Price: order.Price})
}

func writeRejected(w http.ResponseWriter, result configurator.Result) {
	writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, "configuration is not ready for submission",
		map[string]any{"reasons": result.Reasons})
}

func (h *Handler) ExportQuote(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	data, err := quote.Export(h.engine.Catalog(), quote.Input{
		Configuration: cfg,
		Price:         h.engine.Price(cfg, configurator.FullConfiguration),
		Reference:     req.Reference,
		CreatedAt:     h.now(),
	})
	if err != nil {
		h.logger.Error("quote export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "quote could not be created", nil)
		return
	}

	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="pocat-quote.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type draftResponse struct {
	Configuration configurator.Configuration `json:"configuration"`
	Found         bool                       `json:"found"`
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	cfg, found := h.drafts.Restore(r.Context(), chi.URLParam(r, "owner"))
	writeJSON(w, http.StatusOK, draftResponse{Configuration: cfg, Found: found})
}

// PutDraft takes a bare configuration as body.
func (h *Handler) PutDraft(w http.ResponseWriter, r *http.Request) {
	cfg := configurator.Default()
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid configuration", map[string]any{"reason": err.Error()})
		return
	}

	if err := h.drafts.Save(r.Context(), chi.URLParam(r, "owner"), cfg); err != nil {
		writeError(w, http.StatusServiceUnavailable, codeInternal, "draft could not be saved", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Discard(r.Context(), chi.URLParam(r, "owner")); err != nil {
		h.logger.Warn("failed to discard draft", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeInternal, "draft could not be deleted", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
