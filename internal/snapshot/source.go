package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// MaxDocumentBytes bounds how much of a price document any source reads.
const MaxDocumentBytes = 1 << 20

// Source fetches the raw price document.
type Source interface {
	// Fetch returns the raw document bytes.
	Fetch(ctx context.Context) ([]byte, error)

	// Name returns the source identifier used in logs.
	Name() string
}

// FileSource reads the price document from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a new file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
	}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	data, err := readDocument(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return data, nil
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return "file"
}

// HTTPSource fetches the price document over HTTP.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a new HTTP source.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a GET and returns the body of a 200 response.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned status %d", resp.StatusCode)
	}

	data, err := readDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return data, nil
}

// Name returns the source identifier.
func (s *HTTPSource) Name() string {
	return "http"
}

func readDocument(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxDocumentBytes))
}
