package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/costwatch/internal/observability"
)

// maxPageBytes bounds how much of a docs page is read.
const maxPageBytes = 8 << 20

// Service is a cloud pricing page checked alongside the model rates.
type Service struct {
	Name string
	URL  string
}

// DefaultServices returns the cloud pricing pages behind the non-LLM categories.
func DefaultServices() []Service {
	return []Service{
		{Name: "S3", URL: "https://aws.amazon.com/s3/pricing/"},
		{Name: "DynamoDB", URL: "https://aws.amazon.com/dynamodb/pricing/"},
		{Name: "Rekognition", URL: "https://aws.amazon.com/rekognition/pricing/"},
		{Name: "Textract", URL: "https://aws.amazon.com/textract/pricing/"},
		{Name: "Polly", URL: "https://aws.amazon.com/polly/pricing/"},
		{Name: "Transcribe", URL: "https://aws.amazon.com/transcribe/pricing/"},
	}
}

// Scraper builds a price document from the provider docs.
type Scraper struct {
	httpClient  *http.Client
	modelsURL   string
	services    []Service
	concurrency int
	now         func() time.Time
}

// NewScraper creates a new scraper. A concurrency below one checks every service at once.
func NewScraper(modelsURL string, services []Service, timeout time.Duration, concurrency int) *Scraper {
	return &Scraper{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		modelsURL:   modelsURL,
		services:    services,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run scrapes every page and returns the document.
// It never fails: unreadable model pricing falls back to the built-in rates
// and unreadable service pages are recorded as such.
func (s *Scraper) Run(ctx context.Context) *Document {
	return &Document{
		LastUpdated:    s.now().Format(timestampForm),
		ScraperVersion: Version,
		LLMModels: map[string]ProviderPrices{
			anthropicKey: s.scrapeModels(ctx),
		},
		AWSServices: s.checkServices(ctx),
	}
}

func (s *Scraper) scrapeModels(ctx context.Context) ProviderPrices {
	logger := observability.FromContext(ctx).With(observability.String("url", s.modelsURL))

	prices := ProviderPrices{
		Provider:  providerName,
		SourceURL: s.modelsURL,
		Unit:      tokenUnit,
	}

	lines, err := s.fetchLines(ctx, s.modelsURL)
	if err != nil {
		logger.Warn("failed to fetch model pricing, using built-in rates", observability.Error(err))
		prices.Models = FallbackModels()
		prices.Note = noteFetchFailed
		return prices
	}

	prices.Models = ParseModelPrices(lines)
	if len(prices.Models) == 0 {
		prices.Models = FallbackModels()
		prices.Note = noteNoPrices
	}

	logger.Info("fetched model pricing",
		observability.Int("models", len(prices.Models)),
		observability.Bool("fallback", prices.Note != ""))

	return prices
}

func (s *Scraper) checkServices(ctx context.Context) map[string]ServiceCheck {
	checks := make([]ServiceCheck, len(s.services))

	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for i, service := range s.services {
		g.Go(func() error {
			checks[i] = s.checkService(ctx, service)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]ServiceCheck, len(checks))
	for _, check := range checks {
		results[strings.ToLower(check.Service)] = check
	}
	return results
}

func (s *Scraper) checkService(ctx context.Context, service Service) ServiceCheck {
	logger := observability.FromContext(ctx).With(observability.String("service", service.Name))

	check := ServiceCheck{
		Service:   service.Name,
		SourceURL: service.URL,
	}

	lines, err := s.fetchLines(ctx, service.URL)
	if err != nil {
		logger.Warn("failed to fetch service pricing page", observability.Error(err))
		check.Error = err.Error()
		return check
	}

	check.Scraped = true
	check.RawContentLength = len(strings.Join(lines, "\n"))
	check.PriceMentions = countPriceMentions(lines)

	logger.Info("fetched service pricing page",
		observability.Int("price_mentions", check.PriceMentions))

	return check
}

// fetchLines performs a GET and returns the visible text lines of a 200 response.
func (s *Scraper) fetchLines(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html, text/plain;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing page returned status %d", resp.StatusCode)
	}

	lines, err := TextLines(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return lines, nil
}
