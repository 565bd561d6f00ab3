package jsondoc

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"biodash/domain/dataset"

	"github.com/tidwall/gjson"
)

// HTTPSource fetches the document with a single GET. There are no retries:
// a failed fetch is reported to the loader as is.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	dataPath   string
}

// NewHTTPSource creates an HTTP source. A nil client uses one with a 30s timeout.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{url: url, httpClient: client}
}

// WithDataPath selects the samples document inside a wrapping response,
// e.g. "data" for {"data": {"names": ...}}. Paths use gjson syntax.
func (s *HTTPSource) WithDataPath(path string) *HTTPSource {
	s.dataPath = path
	return s
}

func (s *HTTPSource) Name() string     { return "http" }
func (s *HTTPSource) Location() string { return s.url }

// Load fetches and decodes the document.
func (s *HTTPSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	reqStart := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s returned status %d: %s", s.url, resp.StatusCode, string(body))
	}

	ds, err := s.decode(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("[HTTPSource] Fetched %d subjects from %s in %s", ds.Len(), s.url, time.Since(reqStart).Round(time.Millisecond))
	return ds, nil
}

func (s *HTTPSource) decode(r io.Reader) (*dataset.Dataset, error) {
	if s.dataPath == "" {
		return Decode(r)
	}

	body, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxDocumentSize)
	}
	doc := gjson.GetBytes(body, s.dataPath)
	if !doc.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in response", s.dataPath)
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("data path '%s' is not a JSON object", s.dataPath)
	}
	return DecodeBytes([]byte(doc.Raw))
}
