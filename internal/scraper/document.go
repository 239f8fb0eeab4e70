package scraper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/snapshot"
)

const (
	// Version is stamped into every document as scraper_version.
	Version = "1.0.0"

	anthropicKey  = "anthropic"
	providerName  = "Anthropic"
	tokenUnit     = "per 1M tokens"
	timestampForm = "2006-01-02T15:04:05.000000"

	noteFetchFailed = "Fallback data - scraping failed"
	noteNoPrices    = "Fallback data - no prices found on page"
)

// ModelPrice is a model's USD rate pair per million tokens.
type ModelPrice struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// ProviderPrices holds the model rates scraped from one provider's docs.
// Note is set when the rates are the built-in fallback instead of live data.
type ProviderPrices struct {
	Provider  string                `json:"provider"`
	SourceURL string                `json:"source_url"`
	Models    map[string]ModelPrice `json:"models"`
	Unit      string                `json:"unit"`
	Note      string                `json:"note,omitempty"`
}

// ServiceCheck records whether a cloud pricing page could be read.
// These pages are kept for reference; their rates are not extracted.
type ServiceCheck struct {
	Service          string `json:"service"`
	SourceURL        string `json:"source_url"`
	Scraped          bool   `json:"scraped"`
	RawContentLength int    `json:"raw_content_length,omitempty"`
	PriceMentions    int    `json:"price_mentions,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Document is the price snapshot written for the estimator to load.
type Document struct {
	LastUpdated    string                    `json:"last_updated"`
	ScraperVersion string                    `json:"scraper_version"`
	LLMModels      map[string]ProviderPrices `json:"llm_models"`
	AWSServices    map[string]ServiceCheck   `json:"aws_services"`
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode price document: %w", err)
	}
	return append(data, '\n'), nil
}

// FallbackModels returns the built-in rates keyed by document model id.
func FallbackModels() map[string]ModelPrice {
	rates := domain.DefaultRateCard().Models()

	models := make(map[string]ModelPrice, len(rates))
	for tier, rate := range rates {
		models[snapshot.ModelID(tier)] = ModelPrice{Input: rate.Input, Output: rate.Output}
	}
	return models
}

// WriteDocument replaces the file at path with data.
// The data is written to a sibling temp file first so readers never see a partial document.
func WriteDocument(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
