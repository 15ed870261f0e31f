// Package ocr wraps the optical character recognition engine. The rest of the
// service consumes it as a black box that turns an image into a sequence of
// (region, text, confidence) detections in emission order.
package ocr

import "context"

// Bounds is a rectangular region in pixel coordinates. Spatial metadata is
// carried through for the event log but plays no part in matching.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is one raw OCR hit. Confidence is in [0,1]. No ordering guarantee
// beyond the engine's emission order, and an empty result is not an error.
type Detection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Region     Bounds  `json:"region"`
}

// Engine is the recognition collaborator. Implementations are expensive to
// construct and are built once per process.
type Engine interface {
	Detect(ctx context.Context, imagePath string) ([]Detection, error)
	Close() error
}
