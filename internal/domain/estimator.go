package domain

import (
	"errors"
	"fmt"
)

const secondsPerMinute = 60.0

// ErrUnknownCategory indicates an estimate was requested for a category that does not exist.
var ErrUnknownCategory = errors.New("unknown category")

// Estimator computes monthly cost estimates from usage quantities.
// It keeps no results; every call reads the rates in effect at that moment.
type Estimator struct {
	rates RateSource
}

// NewEstimator creates a new estimator (DI constructor).
func NewEstimator(rates RateSource) *Estimator {
	return &Estimator{
		rates: rates,
	}
}

// EstimateRAG prices storage plus put and get requests.
func (e *Estimator) EstimateRAG(req RAGRequest) Estimate {
	card := e.rates.Current()

	total := card.UnitRate(DimRAGStorage).Cost(Sanitize(req.StorageGB)) +
		card.UnitRate(DimRAGPuts).Cost(Sanitize(req.PutsThousands)) +
		card.UnitRate(DimRAGGets).Cost(Sanitize(req.GetsThousands))

	return newEstimate(CategoryRAG, total)
}

// EstimateVision prices image analysis and video minutes.
func (e *Estimator) EstimateVision(req VisionRequest) Estimate {
	card := e.rates.Current()

	total := card.UnitRate(DimVisionImages).Cost(Sanitize(req.ImagesThousands)) +
		card.UnitRate(DimVisionVideo).Cost(Sanitize(req.VideoMinutes))

	return newEstimate(CategoryVision, total)
}

// EstimateOCR prices extracted pages. Basic pages carry a monthly free allowance.
func (e *Estimator) EstimateOCR(req OCRRequest) Estimate {
	card := e.rates.Current()

	total := card.UnitRate(DimOCRBasic).Cost(Sanitize(req.BasicPages)) +
		card.UnitRate(DimOCRForms).Cost(Sanitize(req.FormsPages)) +
		card.UnitRate(DimOCRExpense).Cost(Sanitize(req.ExpensePages))

	return newEstimate(CategoryOCR, total)
}

// EstimateVoice prices speech minutes at per-second rates.
func (e *Estimator) EstimateVoice(req VoiceRequest) Estimate {
	card := e.rates.Current()

	inputSeconds := Sanitize(req.InputMinutes) * secondsPerMinute
	outputSeconds := Sanitize(req.OutputMinutes) * secondsPerMinute

	total := card.UnitRate(DimVoiceInput).Cost(inputSeconds) +
		card.UnitRate(DimVoiceOutput).Cost(outputSeconds)

	return newEstimate(CategoryVoice, total)
}

// EstimateStorage prices object storage, key-value storage and request volume.
func (e *Estimator) EstimateStorage(req StorageRequest) Estimate {
	card := e.rates.Current()

	total := card.UnitRate(DimStorageS3).Cost(Sanitize(req.S3GB)) +
		card.UnitRate(DimStorageDynamo).Cost(Sanitize(req.DynamoGB)) +
		card.UnitRate(DimStorageWrites).Cost(Sanitize(req.WritesMillions)) +
		card.UnitRate(DimStorageReads).Cost(Sanitize(req.ReadsMillions))

	return newEstimate(CategoryStorage, total)
}

// EstimateLLM prices token usage. Tokens are in millions, rates are per million.
func (e *Estimator) EstimateLLM(req LLMRequest) Estimate {
	rate := e.rates.Current().ModelRate(req.Model)

	total := Sanitize(req.InputTokensMillions)*rate.Input +
		Sanitize(req.OutputTokensMillions)*rate.Output

	return newEstimate(CategoryLLM, total)
}

// Estimate computes one category from raw form fields.
func (e *Estimator) Estimate(category Category, form Form) (Estimate, error) {
	switch category {
	case CategoryRAG:
		return e.EstimateRAG(RAGRequestFromForm(form)), nil
	case CategoryVision:
		return e.EstimateVision(VisionRequestFromForm(form)), nil
	case CategoryOCR:
		return e.EstimateOCR(OCRRequestFromForm(form)), nil
	case CategoryVoice:
		return e.EstimateVoice(VoiceRequestFromForm(form)), nil
	case CategoryStorage:
		return e.EstimateStorage(StorageRequestFromForm(form)), nil
	case CategoryLLM:
		return e.EstimateLLM(LLMRequestFromForm(form)), nil
	default:
		return Estimate{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
}

// EstimateAll recomputes every category from raw form fields.
func (e *Estimator) EstimateAll(form Form) []Estimate {
	categories := Categories()
	estimates := make([]Estimate, 0, len(categories))

	for _, category := range categories {
		estimate, err := e.Estimate(category, form)
		if err != nil {
			continue
		}
		estimates = append(estimates, estimate)
	}

	return estimates
}

func newEstimate(category Category, total float64) Estimate {
	return Estimate{
		Category:  category,
		Total:     total,
		Formatted: FormatCurrency(total),
	}
}
