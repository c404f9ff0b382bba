// Package label renders QR labels to stick on a thing or its box. The code
// carries the item ID, so a scan resolves back to the item.
package label

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/idilsaglam/mythings/internal/model"
)

const (
	scheme      = "mythings:"
	DefaultSize = 300
	minSize     = 64
	maxSize     = 2048
)

var ErrSize = fmt.Errorf("label size must be between %d and %d", minSize, maxSize)

// Content is the text encoded in an item's label.
func Content(it model.Item) string { return scheme + it.ID }

// Parse returns the item ID from scanned label text.
func Parse(content string) (string, bool) {
	id, ok := strings.CutPrefix(strings.TrimSpace(content), scheme)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// PNG encodes the item's label as a size x size PNG.
func PNG(it model.Item, size int) ([]byte, error) {
	if it.ID == "" {
		return nil, errors.New("label: item has no id")
	}
	if size < minSize || size > maxSize {
		return nil, ErrSize
	}
	code, err := qr.Encode(Content(it), qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
