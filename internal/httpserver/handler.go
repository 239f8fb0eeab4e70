package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/observability"
)

// maxFormBytes bounds the size of an estimate request body.
const maxFormBytes = 64 << 10

// Handler handles HTTP requests.
type Handler struct {
	estimator *domain.Estimator
	rates     domain.RateSource
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(estimator *domain.Estimator, table *domain.PriceTable) *Handler {
	return &Handler{
		estimator: estimator,
		rates:     table,
	}
}

// EstimatesResponse is returned by the estimate endpoints.
type EstimatesResponse struct {
	Estimates   []domain.Estimate `json:"estimates"`
	LastUpdated string            `json:"last_updated,omitempty"`
}

// PricesResponse describes the rate card in effect.
type PricesResponse struct {
	Models      map[string]domain.ModelRate          `json:"models"`
	Units       map[domain.Dimension]domain.UnitRate `json:"units"`
	Fallback    domain.ModelRate                     `json:"fallback"`
	Revision    uint64                               `json:"revision"`
	LastUpdated string                               `json:"last_updated,omitempty"`
}

// HandleEstimates recomputes every category from the posted form.
func (h *Handler) HandleEstimates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Early validation.
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	form := readForm(r)
	estimates := h.estimator.EstimateAll(form)

	logger := observability.FromContext(ctx)
	logger.Info("estimates computed",
		observability.Int("fields", len(form)),
		observability.Int("categories", len(estimates)),
	)

	h.writeJSON(w, r, EstimatesResponse{
		Estimates:   estimates,
		LastUpdated: domain.FormatLastUpdated(h.rates.Current().LastUpdated()),
	})
}

// HandleCategoryEstimate computes a single category from the posted form.
func (h *Handler) HandleCategoryEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := domain.Category(r.PathValue("category"))

	// Inject category into context for downstream logging.
	ctx := observability.WithCategory(r.Context(), string(category))
	logger := observability.FromContext(ctx)

	estimate, err := h.estimator.Estimate(category, readForm(r))
	if errors.Is(err, domain.ErrUnknownCategory) {
		logger.Info("estimate requested for unknown category")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	logger.Info("estimate computed",
		observability.Float64("total", estimate.Total),
	)

	h.writeJSON(w, r.WithContext(ctx), EstimatesResponse{
		Estimates:   []domain.Estimate{estimate},
		LastUpdated: domain.FormatLastUpdated(h.rates.Current().LastUpdated()),
	})
}

// HandlePrices returns the rate card in effect.
func (h *Handler) HandlePrices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	card := h.rates.Current()
	h.writeJSON(w, r, PricesResponse{
		Models:      card.Models(),
		Units:       card.Units(),
		Fallback:    domain.FallbackModelRate,
		Revision:    card.Revision(),
		LastUpdated: domain.FormatLastUpdated(card.LastUpdated()),
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// readForm reads a flat JSON object of field id to value.
// Anything that is not such an object reads as an empty form.
func readForm(r *http.Request) domain.Form {
	form := make(domain.Form)
	if r.Body == nil {
		return form
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
	if err != nil || !gjson.ValidBytes(data) {
		return form
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return form
	}

	root.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			form[key.String()] = value.String()
		case gjson.Number:
			form[key.String()] = value.Raw
		default:
			form[key.String()] = ""
		}
		return true
	})

	return form
}
