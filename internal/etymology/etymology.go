// Package etymology verifies affix entries against a public affix
// etymology dataset before they go into quiz material.
package etymology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Entry is one affix record from the etymology dataset.
type Entry struct {
	Affix   string `json:"affix"`
	Kind    string `json:"kind"`
	Meaning string `json:"meaning"`
	Origin  string `json:"origin,omitempty"`
}

// Reader fetches the affix dataset over HTTP.
type Reader struct {
	client     *resty.Client
	datasetURL string
}

// NewReader creates a Reader for the given dataset URL.
func NewReader(datasetURL string) *Reader {
	return &Reader{
		client:     resty.New(),
		datasetURL: datasetURL,
	}
}

// Fetch downloads and decodes the full affix dataset.
func (r *Reader) Fetch(ctx context.Context) ([]Entry, error) {
	res, err := r.client.R().
		SetContext(ctx).
		Get(r.datasetURL)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w, response %s", err, string(res.Body()))
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	var entries []Entry
	if err := json.Unmarshal(res.Body(), &entries); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return entries, nil
}

// normalize strips hyphens and case so "-ful", "ful-" and "Ful" collide.
func normalize(affix string) string {
	return strings.ToLower(strings.Trim(affix, "-"))
}
