package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// QuoteData is a quote as returned by a QuoteSource.
type QuoteData struct {
	Text   string
	Author string
}

// QuoteSource fetches a quote from somewhere outside the service.
type QuoteSource interface {
	Fetch(ctx context.Context) (QuoteData, error)
}

// HTTPQuoteSource reads quotes from a quotable-style JSON API. Both a single
// object and an array of objects are accepted; the text may be under
// "content" or "quote".
type HTTPQuoteSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPQuoteSource creates a source for url with a bounded client timeout.
func NewHTTPQuoteSource(url string, timeout time.Duration) *HTTPQuoteSource {
	return &HTTPQuoteSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

type quotePayload struct {
	Content string `json:"content"`
	Quote   string `json:"quote"`
	Author  string `json:"author"`
}

func (s *HTTPQuoteSource) Fetch(ctx context.Context) (QuoteData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return QuoteData{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Consigliere/1.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return QuoteData{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return QuoteData{}, fmt.Errorf("quote api returned %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return QuoteData{}, fmt.Errorf("decode quote: %w", err)
	}

	var payload quotePayload
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		var list []quotePayload
		if err := json.Unmarshal(raw, &list); err != nil {
			return QuoteData{}, fmt.Errorf("decode quote list: %w", err)
		}
		if len(list) == 0 {
			return QuoteData{}, errors.New("quote api returned an empty list")
		}
		payload = list[0]
	} else if err := json.Unmarshal(raw, &payload); err != nil {
		return QuoteData{}, fmt.Errorf("decode quote: %w", err)
	}

	text := strings.TrimSpace(payload.Content)
	if text == "" {
		text = strings.TrimSpace(payload.Quote)
	}
	if text == "" {
		return QuoteData{}, errors.New("quote api returned no text")
	}
	return QuoteData{Text: text, Author: strings.TrimSpace(payload.Author)}, nil
}
