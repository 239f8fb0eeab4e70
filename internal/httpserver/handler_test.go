package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/httpserver"
)

func newHandler() (*httpserver.Handler, *domain.PriceTable) {
	table := domain.NewPriceTable()
	return httpserver.NewHandler(domain.NewEstimator(table), table), table
}

func decodeEstimates(t *testing.T, w *httptest.ResponseRecorder) httpserver.EstimatesResponse {
	t.Helper()

	var resp httpserver.EstimatesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleEstimates(t *testing.T) {
	t.Run("computes every category", func(t *testing.T) {
		handler, _ := newHandler()

		body := `{"llm-model": "nonexistent", "llm-input-tokens": 2, "llm-output-tokens": "1", "voice-input-mins": 1}`
		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleEstimates(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		resp := decodeEstimates(t, w)
		require.Len(t, resp.Estimates, len(domain.Categories()))
		require.Empty(t, resp.LastUpdated)

		byCategory := make(map[domain.Category]string)
		for _, estimate := range resp.Estimates {
			byCategory[estimate.Category] = estimate.Formatted
		}
		require.Equal(t, "$21.00", byCategory[domain.CategoryLLM])
		require.Equal(t, "$0.05", byCategory[domain.CategoryVoice])
		require.Equal(t, "$0.00", byCategory[domain.CategoryRAG])
	})

	t.Run("malformed body reads as zero", func(t *testing.T) {
		handler, _ := newHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", strings.NewReader("not json"))
		w := httptest.NewRecorder()

		handler.HandleEstimates(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		for _, estimate := range decodeEstimates(t, w).Estimates {
			require.Equal(t, "$0.00", estimate.Formatted)
		}
	})

	t.Run("non-numeric values read as zero", func(t *testing.T) {
		handler, _ := newHandler()

		body := `{"rag-storage": true, "rag-puts": null, "rag-gets": {"n": 1}, "storage-s3": "ten"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleEstimates(w, req)

		for _, estimate := range decodeEstimates(t, w).Estimates {
			require.Equal(t, "$0.00", estimate.Formatted)
		}
	})

	t.Run("reports the snapshot timestamp", func(t *testing.T) {
		handler, table := newHandler()
		table.ApplySnapshot(&domain.Snapshot{LastUpdated: "2025-12-01T10:20:30"})

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", strings.NewReader(`{}`))
		w := httptest.NewRecorder()

		handler.HandleEstimates(w, req)

		require.Equal(t, "Last updated: 12/1/2025 10:20:30 AM", decodeEstimates(t, w).LastUpdated)
	})

	t.Run("rejects other methods", func(t *testing.T) {
		handler, _ := newHandler()

		w := httptest.NewRecorder()
		handler.HandleEstimates(w, httptest.NewRequest(http.MethodGet, "/v1/estimates", nil))

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleCategoryEstimate(t *testing.T) {
	t.Run("computes one category", func(t *testing.T) {
		handler, _ := newHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates/ocr", strings.NewReader(`{"ocr-basic": "1500"}`))
		req.SetPathValue("category", "ocr")
		w := httptest.NewRecorder()

		handler.HandleCategoryEstimate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeEstimates(t, w)
		require.Len(t, resp.Estimates, 1)
		require.Equal(t, domain.CategoryOCR, resp.Estimates[0].Category)
		require.InDelta(t, 0.75, resp.Estimates[0].Total, 1e-9)
		require.Equal(t, "$0.75", resp.Estimates[0].Formatted)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		handler, _ := newHandler()

		req := httptest.NewRequest(http.MethodPost, "/v1/estimates/gpu", strings.NewReader(`{}`))
		req.SetPathValue("category", "gpu")
		w := httptest.NewRecorder()

		handler.HandleCategoryEstimate(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlePrices(t *testing.T) {
	handler, table := newHandler()
	input, output := 6.0, 30.0
	table.ApplyOverride(domain.ModelOpus45, &input, &output)

	w := httptest.NewRecorder()
	handler.HandlePrices(w, httptest.NewRequest(http.MethodGet, "/v1/prices", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp httpserver.PricesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	require.Equal(t, domain.ModelRate{Input: 6, Output: 30}, resp.Models[domain.ModelOpus45])
	require.Equal(t, domain.FallbackModelRate, resp.Fallback)
	require.Equal(t, uint64(1), resp.Revision)
	require.Equal(t, domain.UnitRate{Rate: 0.0015, FreeUnits: 1000}, resp.Units[domain.DimOCRBasic])
}

func TestHandleHealth(t *testing.T) {
	handler, _ := newHandler()

	w := httptest.NewRecorder()
	handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
