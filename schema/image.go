package schema

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image is a raw image payload destined for a vision model.
type Image struct {
	Data []byte `json:"-"`
}

// Format returns the image format identifier vision APIs expect, e.g. "jpeg"
// or "png", sniffed from the payload bytes. Unrecognized payloads default to
// "jpeg" since that is what camera uploads almost always are.
func (i Image) Format() string {
	mime := mimetype.Detect(i.Data).String()
	sub := strings.TrimPrefix(mime, "image/")
	if sub == mime || sub == "" {
		return "jpeg"
	}
	return sub
}
