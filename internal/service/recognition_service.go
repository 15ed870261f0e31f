package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"lpr-service/internal/domain/registry"
	"lpr-service/internal/ocr"
	"lpr-service/internal/utils"
)

// minConfidence is the strict lower bound for admitting a detection as a
// plate candidate. Detections at or below it are noise.
const minConfidence = 0.3

// EventStore persists recognition passes for later review.
type EventStore interface {
	Create(ctx context.Context, event *registry.RecognitionEvent) error
	FindRecent(ctx context.Context, limit, offset int) ([]registry.RecognitionEvent, error)
}

// RecognitionService turns raw OCR detections into a registry match. The OCR
// engine is constructed once at startup and injected here.
type RecognitionService struct {
	engine ocr.Engine
	plates PlateStore
	events EventStore
	minLen int
	log    zerolog.Logger
}

func NewRecognitionService(engine ocr.Engine, plates PlateStore, events EventStore, minCandidateLength int, log zerolog.Logger) *RecognitionService {
	return &RecognitionService{
		engine: engine,
		plates: plates,
		events: events,
		minLen: minCandidateLength,
		log:    log,
	}
}

// FilterCandidates normalizes each detection and admits it when its confidence
// is strictly above minConfidence and the normalized text is long enough.
// Emission order is preserved; there is no dedup and no confidence sort. An
// empty result means nothing recognizable, which is a valid outcome.
func (s *RecognitionService) FilterCandidates(detections []ocr.Detection) []string {
	candidates := make([]string, 0, len(detections))
	for _, d := range detections {
		normalized := utils.NormalizePlate(d.Text)
		// Length is counted in characters, not bytes: a two-character CJK
		// token must not slip past the cutoff.
		if d.Confidence > minConfidence && utf8.RuneCountInString(normalized) >= s.minLen {
			candidates = append(candidates, normalized)
		}
	}
	return candidates
}

// Resolve walks the candidates in filter order and returns the first registry
// hit. Subsequent candidates are never checked once a hit occurs: OCR tends to
// emit the true plate token before peripheral noise, so first-match wins.
func (s *RecognitionService) Resolve(ctx context.Context, candidates []string) (registry.MatchResult, error) {
	if len(candidates) == 0 {
		return registry.MatchResult{Status: registry.StatusNoCandidates}, nil
	}

	for _, candidate := range candidates {
		record, err := s.plates.FindByNumber(ctx, candidate)
		if err != nil {
			return registry.MatchResult{}, fmt.Errorf("failed to resolve candidate %q: %w", candidate, err)
		}
		if record != nil {
			return registry.MatchResult{
				Status:     registry.StatusMatched,
				Plate:      record.PlateNumber,
				OwnerName:  record.OwnerName,
				Department: record.Department,
				Candidates: candidates,
			}, nil
		}
	}

	return registry.MatchResult{
		Status:     registry.StatusUnmatched,
		Candidates: candidates,
	}, nil
}

// RecognizeAndResolve runs the full pipeline on the image at imagePath:
// OCR, candidate filtering, resolution, and the audit event. snapshotURL is
// recorded on the event when the caller stored the image.
func (s *RecognitionService) RecognizeAndResolve(ctx context.Context, imagePath string, snapshotURL *string) (registry.MatchResult, *registry.RecognitionEvent, error) {
	detections, err := s.engine.Detect(ctx, imagePath)
	if err != nil {
		return registry.MatchResult{}, nil, fmt.Errorf("ocr failed: %w", err)
	}

	candidates := s.FilterCandidates(detections)
	s.log.Debug().
		Int("detections", len(detections)).
		Int("candidates", len(candidates)).
		Strs("candidate_list", candidates).
		Msg("filtered OCR detections")

	result, err := s.Resolve(ctx, candidates)
	if err != nil {
		return registry.MatchResult{}, nil, err
	}

	event := &registry.RecognitionEvent{
		Status:      result.Status,
		Candidates:  candidates,
		SnapshotURL: snapshotURL,
	}
	if result.Status == registry.StatusMatched {
		plate := result.Plate
		event.MatchedPlate = &plate
	}
	if err := s.events.Create(ctx, event); err != nil {
		// The resolution outcome is still valid; losing the audit row should
		// not fail the user-facing operation.
		s.log.Error().Err(err).Msg("failed to record recognition event")
	}

	switch result.Status {
	case registry.StatusMatched:
		s.log.Info().
			Str("plate", result.Plate).
			Str("owner_name", result.OwnerName).
			Str("department", result.Department).
			Msg("plate matched")
	case registry.StatusUnmatched:
		s.log.Info().
			Strs("candidates", candidates).
			Msg("candidates recognized but none registered")
	default:
		s.log.Info().Msg("no usable text recognized")
	}

	return result, event, nil
}

// RecentEvents returns the recognition audit trail, newest first.
func (s *RecognitionService) RecentEvents(ctx context.Context, limit, offset int) ([]registry.RecognitionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	events, err := s.events.FindRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recognition events: %w", err)
	}
	return events, nil
}
