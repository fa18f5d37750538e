package translation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/snonux/ivrit/internal/fetch"
)

// DefaultGoogleURL is the public Google Translate endpoint
const DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the public Google Translate endpoint
type GoogleTranslator struct {
	client   fetch.Getter
	endpoint string
}

// NewGoogleTranslator creates a Google Translate client
func NewGoogleTranslator(client fetch.Getter, endpoint string) *GoogleTranslator {
	if endpoint == "" {
		endpoint = DefaultGoogleURL
	}
	return &GoogleTranslator{
		client:   client,
		endpoint: endpoint,
	}
}

// Name returns the provider name
func (g *GoogleTranslator) Name() string {
	return "google"
}

// Translate translates text. The response is a nested JSON array whose
// first element lists [translated, original, ...] segments.
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	page, err := g.client.Get(ctx, g.endpoint+"?"+params.Encode())
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(page.Body) {
		return "", fmt.Errorf("invalid response from Google Translate")
	}

	var b strings.Builder
	for _, segment := range gjson.GetBytes(page.Body, "0.#.0").Array() {
		b.WriteString(segment.String())
	}
	return strings.TrimSpace(b.String()), nil
}
