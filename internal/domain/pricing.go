package domain

import (
	"errors"
	"maps"
)

// ErrUnknownDimension indicates a unit rate lookup for a dimension the table does not price.
var ErrUnknownDimension = errors.New("unknown pricing dimension")

// Dimension identifies a single billable input of a category.
type Dimension string

const (
	DimRAGStorage Dimension = "rag.storage_gb"
	DimRAGPuts    Dimension = "rag.puts_thousands"
	DimRAGGets    Dimension = "rag.gets_thousands"

	DimVisionImages Dimension = "vision.images_thousands"
	DimVisionVideo  Dimension = "vision.video_minutes"

	DimOCRBasic   Dimension = "ocr.basic_pages"
	DimOCRForms   Dimension = "ocr.forms_pages"
	DimOCRExpense Dimension = "ocr.expense_pages"

	DimVoiceInput  Dimension = "voice.input_seconds"
	DimVoiceOutput Dimension = "voice.output_seconds"

	DimStorageS3     Dimension = "storage.s3_gb"
	DimStorageDynamo Dimension = "storage.dynamo_gb"
	DimStorageWrites Dimension = "storage.writes_millions"
	DimStorageReads  Dimension = "storage.reads_millions"
)

// UnitRate is a USD price per unit of a dimension.
// FreeUnits are subtracted from the quantity before the rate applies.
type UnitRate struct {
	Rate      float64 `json:"rate"`
	FreeUnits float64 `json:"free_units,omitempty"`
}

// Cost returns the charge for quantity units.
func (u UnitRate) Cost(quantity float64) float64 {
	billable := quantity - u.FreeUnits
	if billable <= 0 {
		return 0
	}
	return billable * u.Rate
}

// ModelRate contains LLM pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Model tiers recognized by the price table.
const (
	ModelOpus45   = "opus-4.5"
	ModelOpus41   = "opus-4.1"
	ModelSonnet45 = "sonnet-4.5"
	ModelSonnet4  = "sonnet-4"
	ModelHaiku45  = "haiku-4.5"
	ModelHaiku35  = "haiku-3.5"
)

// FallbackModelRate is used for any model the table does not know.
var FallbackModelRate = ModelRate{Input: 3, Output: 15}

// ocrFreePages is the monthly free allowance for basic text detection.
const ocrFreePages = 1000

// ModelTiers returns the recognized model tiers in display order.
func ModelTiers() []string {
	return []string{ModelOpus45, ModelOpus41, ModelSonnet45, ModelSonnet4, ModelHaiku45, ModelHaiku35}
}

// IsKnownModel reports whether model is one of the recognized tiers.
func IsKnownModel(model string) bool {
	_, ok := defaultModelRates()[model]
	return ok
}

func defaultModelRates() map[string]ModelRate {
	return map[string]ModelRate{
		ModelOpus45:   {Input: 5, Output: 25},
		ModelOpus41:   {Input: 15, Output: 75},
		ModelSonnet45: {Input: 3, Output: 15},
		ModelSonnet4:  {Input: 3, Output: 15},
		ModelHaiku45:  {Input: 1, Output: 5},
		ModelHaiku35:  {Input: 0.80, Output: 4},
	}
}

func defaultUnitRates() map[Dimension]UnitRate {
	return map[Dimension]UnitRate{
		DimRAGStorage: {Rate: 0.023},
		DimRAGPuts:    {Rate: 0.005},
		DimRAGGets:    {Rate: 0.0004},

		DimVisionImages: {Rate: 1.00},
		DimVisionVideo:  {Rate: 0.10},

		DimOCRBasic:   {Rate: 0.0015, FreeUnits: ocrFreePages},
		DimOCRForms:   {Rate: 0.015},
		DimOCRExpense: {Rate: 0.01},

		DimVoiceInput:  {Rate: 0.0008},
		DimVoiceOutput: {Rate: 0.0032},

		DimStorageS3:     {Rate: 0.023},
		DimStorageDynamo: {Rate: 0.25},
		DimStorageWrites: {Rate: 1.25},
		DimStorageReads:  {Rate: 0.25},
	}
}

// RateCard is an immutable view of every rate at one point in time.
// A computation reads a single card so it never observes a partial update.
type RateCard struct {
	units       map[Dimension]UnitRate
	models      map[string]ModelRate
	lastUpdated string
	revision    uint64
}

// DefaultRateCard returns a card holding the built-in rates.
func DefaultRateCard() *RateCard {
	return &RateCard{
		units:       defaultUnitRates(),
		models:      defaultModelRates(),
		lastUpdated: "",
		revision:    0,
	}
}

// UnitRate returns the rate for a dimension. Unknown dimensions cost nothing.
func (c *RateCard) UnitRate(dim Dimension) UnitRate {
	return c.units[dim]
}

// ModelRate returns the rate pair for a model, or FallbackModelRate if it is unknown.
func (c *RateCard) ModelRate(model string) ModelRate {
	if rate, ok := c.models[model]; ok {
		return rate
	}
	return FallbackModelRate
}

// Units returns a copy of the unit rates.
func (c *RateCard) Units() map[Dimension]UnitRate {
	return maps.Clone(c.units)
}

// Models returns a copy of the model rates.
func (c *RateCard) Models() map[string]ModelRate {
	return maps.Clone(c.models)
}

// LastUpdated returns the raw timestamp of the applied snapshot, if any.
func (c *RateCard) LastUpdated() string {
	return c.lastUpdated
}

// Revision counts the writes applied since the defaults were loaded.
func (c *RateCard) Revision() uint64 {
	return c.revision
}

func (c *RateCard) clone() *RateCard {
	return &RateCard{
		units:       maps.Clone(c.units),
		models:      maps.Clone(c.models),
		lastUpdated: c.lastUpdated,
		revision:    c.revision,
	}
}
