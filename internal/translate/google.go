// Package translate converts article text into the community language via
// the public Google Translate endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/ports"
)

const (
	defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

	// maxChunkSize is the backend's practical input limit; longer texts are
	// chunked at sentence boundaries and re-joined.
	maxChunkSize = 500
)

// GoogleClient implements ports.Translator against the unauthenticated
// translate endpoint used by the gtx web client.
type GoogleClient struct {
	endpoint string
	source   string
	target   string
	client   *http.Client
}

var _ ports.Translator = (*GoogleClient)(nil)

// NewGoogleClient builds a reusable client for one language pair.
func NewGoogleClient(source, target string) *GoogleClient {
	return &GoogleClient{
		endpoint: defaultEndpoint,
		source:   source,
		target:   target,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Translate converts text to the target language. Inputs beyond the chunk
// limit are split at sentence boundaries, translated one by one, and joined.
func (c *GoogleClient) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	chunks := splitChunks(text, maxChunkSize)
	translated := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out, err := c.translateChunk(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("translate chunk: %w", err)
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, " "), nil
}

func (c *GoogleClient) translateChunk(ctx context.Context, text string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", c.source)
	query.Set("tl", c.target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate backend returned %s", resp.Status)
	}

	// Response shape: [[[translated, original, ...], ...], ...]
	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var out strings.Builder
	for _, raw := range segments {
		segment, ok := raw.([]any)
		if !ok || len(segment) == 0 {
			continue
		}
		if part, ok := segment[0].(string); ok {
			out.WriteString(part)
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("translate response had no text segments")
	}
	return out.String(), nil
}

// splitChunks breaks text into pieces below max, preferring sentence
// boundaries. A single sentence longer than max becomes its own chunk.
func splitChunks(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}

	sentences := strings.Split(text, ". ")
	var chunks []string
	current := ""

	for _, sentence := range sentences {
		switch {
		case len(current)+len(sentence) < max:
			current += sentence + ". "
		case current != "":
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence + ". "
		default:
			chunks = append(chunks, sentence)
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}
