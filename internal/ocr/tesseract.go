package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tesseractClient is the slice of gosseract.Client the engine drives.
type tesseractClient interface {
	SetImage(imagepath string) error
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
	Close() error
}

// TesseractEngine runs Tesseract via gosseract. The client is created once in
// NewTesseractEngine and reused for every Detect call. SetImage followed by
// GetBoundingBoxes is a stateful sequence on the client and the HTTP layer
// serves recognitions concurrently, so the mutex holds the client for one
// Detect at a time.
type TesseractEngine struct {
	mu     sync.Mutex
	client tesseractClient
}

// NewTesseractEngine builds the process-wide engine instance. language is a
// Tesseract language code ("eng" for alphanumeric plates); the corresponding
// trained data must be installed on the host.
func NewTesseractEngine(language string) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set ocr language: %w", err)
	}
	return &TesseractEngine{client: client}, nil
}

// Detect runs word-level OCR on the image at imagePath. Confidence is scaled
// from Tesseract's 0-100 range into [0,1]. Empty words are dropped; order is
// Tesseract's emission order.
func (e *TesseractEngine) Detect(ctx context.Context, imagePath string) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	detections := make([]Detection, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		detections = append(detections, Detection{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Region: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return detections, nil
}

func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
