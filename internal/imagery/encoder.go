// Package imagery rewrites the raw vehicle image payloads delivered with
// each financial product into fetchable image URLs.
package imagery

import (
	"net/url"
	"strings"

	"github.com/sells-group/contract-hub/internal/model"
)

// preEncodedMarker identifies payloads the upstream already encoded;
// those are passed through verbatim.
const preEncodedMarker = "Image-EU-100"

// Encoder builds vehicle image URLs from raw image payloads.
type Encoder struct {
	baseURL    string
	production bool
}

// NewEncoder creates an Encoder. Query-encoding of the payload only
// happens in production; other environments serve the payload as-is.
func NewEncoder(baseURL string, production bool) *Encoder {
	return &Encoder{baseURL: baseURL, production: production}
}

// ImageURL returns the full image URL for a raw payload.
func (e *Encoder) ImageURL(data string) string {
	if e.production && !strings.Contains(data, preEncodedMarker) {
		return e.baseURL + "?" + url.QueryEscape(data)
	}
	return e.baseURL + "?" + data
}

// EncodeProducts rewrites VehicleImageData in place for every product.
func (e *Encoder) EncodeProducts(products []model.FinancialProduct) {
	for i := range products {
		products[i].VehicleImageData = e.ImageURL(products[i].VehicleImageData)
	}
}
