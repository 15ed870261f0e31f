package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"lpr-service/internal/domain/registry"
	"lpr-service/internal/repository"
	"lpr-service/internal/utils"
)

// PlateStore is the persistence surface the registry service needs. Plate
// numbers crossing this boundary are already canonical.
type PlateStore interface {
	Insert(ctx context.Context, plateNumber, ownerName, department string) error
	FindByNumber(ctx context.Context, plateNumber string) (*registry.PlateRecord, error)
	Delete(ctx context.Context, plateNumber string) error
	ListAll(ctx context.Context) ([]registry.PlateRecord, error)
}

// RegistryService owns the plate registry: single-record add, lookup, listing
// and deletion. Normalization happens here, once, on every path.
type RegistryService struct {
	plates PlateStore
	log    zerolog.Logger
}

func NewRegistryService(plates PlateStore, log zerolog.Logger) *RegistryService {
	return &RegistryService{
		plates: plates,
		log:    log,
	}
}

// AddPlate normalizes the supplied plate and creates a registry record under
// the canonical key. Returns the canonical plate number on success and
// ErrAlreadyExists when the key is taken; existing records are never
// overwritten.
func (s *RegistryService) AddPlate(ctx context.Context, plate, ownerName, department string) (string, error) {
	normalized := utils.NormalizePlate(plate)
	if normalized == "" {
		return "", fmt.Errorf("%w: plate cannot be empty after normalization", ErrInvalidInput)
	}

	if err := s.plates.Insert(ctx, normalized, ownerName, department); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", fmt.Errorf("%w: %s", ErrAlreadyExists, normalized)
		}
		s.log.Error().
			Err(err).
			Str("plate", normalized).
			Msg("failed to insert plate")
		return "", fmt.Errorf("failed to insert plate: %w", err)
	}

	s.log.Info().
		Str("plate", normalized).
		Str("raw_plate", plate).
		Str("owner_name", ownerName).
		Str("department", department).
		Msg("plate registered")

	return normalized, nil
}

// Lookup normalizes the query and returns the matching record, or nil when no
// record exists. Exact canonical-key equality only.
func (s *RegistryService) Lookup(ctx context.Context, plateText string) (*registry.PlateRecord, error) {
	normalized := utils.NormalizePlate(plateText)
	if normalized == "" {
		return nil, fmt.Errorf("%w: plate query cannot be empty", ErrInvalidInput)
	}

	record, err := s.plates.FindByNumber(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up plate: %w", err)
	}
	return record, nil
}

// DeletePlate removes the record under the canonical key. Idempotent: deleting
// an absent key succeeds.
func (s *RegistryService) DeletePlate(ctx context.Context, plate string) error {
	normalized := utils.NormalizePlate(plate)
	if normalized == "" {
		return fmt.Errorf("%w: plate cannot be empty after normalization", ErrInvalidInput)
	}

	if err := s.plates.Delete(ctx, normalized); err != nil {
		s.log.Error().Err(err).Str("plate", normalized).Msg("failed to delete plate")
		return fmt.Errorf("failed to delete plate: %w", err)
	}

	s.log.Info().Str("plate", normalized).Msg("plate deleted")
	return nil
}

// ListPlates returns the full registry snapshot.
func (s *RegistryService) ListPlates(ctx context.Context) ([]registry.PlateRecord, error) {
	records, err := s.plates.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plates: %w", err)
	}
	return records, nil
}
