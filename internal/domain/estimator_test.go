package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costwatch/internal/domain"
)

const tolerance = 1e-9

func TestEstimator_Categories(t *testing.T) {
	estimator := domain.NewEstimator(domain.NewPriceTable())

	tests := []struct {
		name              string
		estimate          func() domain.Estimate
		expectedCategory  domain.Category
		expectedTotal     float64
		expectedFormatted string
	}{
		{
			name: "rag storage and requests",
			estimate: func() domain.Estimate {
				return estimator.EstimateRAG(domain.RAGRequest{StorageGB: 100, PutsThousands: 50, GetsThousands: 200})
			},
			expectedCategory:  domain.CategoryRAG,
			expectedTotal:     2.63, // 100*0.023 + 50*0.005 + 200*0.0004
			expectedFormatted: "$2.63",
		},
		{
			name: "vision images and video",
			estimate: func() domain.Estimate {
				return estimator.EstimateVision(domain.VisionRequest{ImagesThousands: 5, VideoMinutes: 30})
			},
			expectedCategory:  domain.CategoryVision,
			expectedTotal:     8,
			expectedFormatted: "$8.00",
		},
		{
			name: "ocr basic pages inside free tier",
			estimate: func() domain.Estimate {
				return estimator.EstimateOCR(domain.OCRRequest{BasicPages: 1000})
			},
			expectedCategory:  domain.CategoryOCR,
			expectedTotal:     0,
			expectedFormatted: "$0.00",
		},
		{
			name: "ocr basic pages past free tier",
			estimate: func() domain.Estimate {
				return estimator.EstimateOCR(domain.OCRRequest{BasicPages: 1500})
			},
			expectedCategory:  domain.CategoryOCR,
			expectedTotal:     0.75, // 500*0.0015
			expectedFormatted: "$0.75",
		},
		{
			name: "ocr all page types",
			estimate: func() domain.Estimate {
				return estimator.EstimateOCR(domain.OCRRequest{BasicPages: 2000, FormsPages: 100, ExpensePages: 50})
			},
			expectedCategory:  domain.CategoryOCR,
			expectedTotal:     3.5, // 1000*0.0015 + 100*0.015 + 50*0.01
			expectedFormatted: "$3.50",
		},
		{
			name: "voice single input minute",
			estimate: func() domain.Estimate {
				return estimator.EstimateVoice(domain.VoiceRequest{InputMinutes: 1})
			},
			expectedCategory:  domain.CategoryVoice,
			expectedTotal:     0.048,
			expectedFormatted: "$0.05",
		},
		{
			name: "voice input and output",
			estimate: func() domain.Estimate {
				return estimator.EstimateVoice(domain.VoiceRequest{InputMinutes: 10, OutputMinutes: 5})
			},
			expectedCategory:  domain.CategoryVoice,
			expectedTotal:     1.44, // 600*0.0008 + 300*0.0032
			expectedFormatted: "$1.44",
		},
		{
			name: "storage all dimensions",
			estimate: func() domain.Estimate {
				return estimator.EstimateStorage(domain.StorageRequest{
					S3GB:           10,
					DynamoGB:       2,
					WritesMillions: 3,
					ReadsMillions:  4,
				})
			},
			expectedCategory:  domain.CategoryStorage,
			expectedTotal:     5.48, // 0.23 + 0.5 + 3.75 + 1.0
			expectedFormatted: "$5.48",
		},
		{
			name: "llm unknown model uses fallback rates",
			estimate: func() domain.Estimate {
				return estimator.EstimateLLM(domain.LLMRequest{
					Model:                "nonexistent",
					InputTokensMillions:  2,
					OutputTokensMillions: 1,
				})
			},
			expectedCategory:  domain.CategoryLLM,
			expectedTotal:     21,
			expectedFormatted: "$21.00",
		},
		{
			name: "llm opus 4.1",
			estimate: func() domain.Estimate {
				return estimator.EstimateLLM(domain.LLMRequest{
					Model:                domain.ModelOpus41,
					InputTokensMillions:  1,
					OutputTokensMillions: 1,
				})
			},
			expectedCategory:  domain.CategoryLLM,
			expectedTotal:     90,
			expectedFormatted: "$90.00",
		},
		{
			name: "llm haiku 3.5",
			estimate: func() domain.Estimate {
				return estimator.EstimateLLM(domain.LLMRequest{
					Model:                domain.ModelHaiku35,
					InputTokensMillions:  10,
					OutputTokensMillions: 2,
				})
			},
			expectedCategory:  domain.CategoryLLM,
			expectedTotal:     16,
			expectedFormatted: "$16.00",
		},
		{
			name: "negative quantities are clamped",
			estimate: func() domain.Estimate {
				return estimator.EstimateRAG(domain.RAGRequest{StorageGB: -100, PutsThousands: 50})
			},
			expectedCategory:  domain.CategoryRAG,
			expectedTotal:     0.25,
			expectedFormatted: "$0.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := tt.estimate()

			require.Equal(t, tt.expectedCategory, estimate.Category)
			require.InDelta(t, tt.expectedTotal, estimate.Total, tolerance)
			require.Equal(t, tt.expectedFormatted, estimate.Formatted)
		})
	}
}

func TestEstimator_EstimateFromForm(t *testing.T) {
	estimator := domain.NewEstimator(domain.NewPriceTable())

	t.Run("reads leading numbers and ignores junk", func(t *testing.T) {
		estimate, err := estimator.Estimate(domain.CategoryRAG, domain.Form{
			domain.FieldRAGStorage: "100 GB",
			domain.FieldRAGPuts:    "lots",
		})
		require.NoError(t, err)
		require.InDelta(t, 2.3, estimate.Total, tolerance)
	})

	t.Run("llm model comes from the form", func(t *testing.T) {
		estimate, err := estimator.Estimate(domain.CategoryLLM, domain.Form{
			domain.FieldLLMModel:        domain.ModelOpus45,
			domain.FieldLLMInputTokens:  "2",
			domain.FieldLLMOutputTokens: "1",
		})
		require.NoError(t, err)
		require.InDelta(t, 35.0, estimate.Total, tolerance)
		require.Equal(t, "$35.00", estimate.Formatted)
	})

	t.Run("missing model uses fallback rates", func(t *testing.T) {
		estimate, err := estimator.Estimate(domain.CategoryLLM, domain.Form{
			domain.FieldLLMInputTokens: "1",
		})
		require.NoError(t, err)
		require.InDelta(t, 3.0, estimate.Total, tolerance)
	})

	t.Run("unknown category returns error", func(t *testing.T) {
		_, err := estimator.Estimate(domain.Category("gpu"), domain.Form{})
		require.ErrorIs(t, err, domain.ErrUnknownCategory)
	})
}

func TestEstimator_EstimateAll(t *testing.T) {
	estimator := domain.NewEstimator(domain.NewPriceTable())

	t.Run("all zero inputs format as zero", func(t *testing.T) {
		estimates := estimator.EstimateAll(domain.Form{})

		require.Len(t, estimates, len(domain.Categories()))
		for i, estimate := range estimates {
			require.Equal(t, domain.Categories()[i], estimate.Category)
			require.Equal(t, "$0.00", estimate.Formatted)
		}
	})

	t.Run("each category reads its own fields", func(t *testing.T) {
		estimates := estimator.EstimateAll(domain.Form{
			domain.FieldVisionImages:   "2",
			domain.FieldVoiceInputMins: "1",
		})

		byCategory := make(map[domain.Category]domain.Estimate, len(estimates))
		for _, estimate := range estimates {
			byCategory[estimate.Category] = estimate
		}

		require.Equal(t, "$2.00", byCategory[domain.CategoryVision].Formatted)
		require.Equal(t, "$0.05", byCategory[domain.CategoryVoice].Formatted)
		require.Equal(t, "$0.00", byCategory[domain.CategoryRAG].Formatted)
	})
}

func TestEstimator_UsesLatestRates(t *testing.T) {
	table := domain.NewPriceTable()
	estimator := domain.NewEstimator(table)
	req := domain.LLMRequest{Model: domain.ModelSonnet45, InputTokensMillions: 1, OutputTokensMillions: 1}

	require.InDelta(t, 18.0, estimator.EstimateLLM(req).Total, tolerance)

	input, output := 6.0, 30.0
	require.True(t, table.ApplyOverride(domain.ModelSonnet45, &input, &output))

	require.InDelta(t, 36.0, estimator.EstimateLLM(req).Total, tolerance)
}
