package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lpr-service/internal/domain/registry"
)

// ErrAlreadyExists is returned by Insert when the canonical plate number is
// already present. Inserts never overwrite.
var ErrAlreadyExists = errors.New("plate already exists")

type PlateRepository struct {
	db *gorm.DB
}

func NewPlateRepository(db *gorm.DB) *PlateRepository {
	return &PlateRepository{db: db}
}

func (Plate) TableName() string {
	return "plates"
}

type Plate struct {
	PlateNumber string `gorm:"primaryKey"`
	OwnerName   string
	Department  string
	CreatedAt   time.Time
}

// Insert creates a new registry record. plateNumber must already be canonical;
// callers normalize before reaching the repository. A primary-key collision is
// reported as ErrAlreadyExists, any other failure is passed through.
func (r *PlateRepository) Insert(ctx context.Context, plateNumber, ownerName, department string) error {
	record := Plate{
		PlateNumber: plateNumber,
		OwnerName:   ownerName,
		Department:  department,
		CreatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, plateNumber)
		}
		return fmt.Errorf("failed to insert plate: %w", err)
	}
	return nil
}

// FindByNumber looks up an exact canonical key. A miss returns (nil, nil);
// absence is a legitimate outcome, not an error.
func (r *PlateRepository) FindByNumber(ctx context.Context, plateNumber string) (*registry.PlateRecord, error) {
	var plate Plate
	err := r.db.WithContext(ctx).
		Where("plate_number = ?", plateNumber).
		First(&plate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plate: %w", err)
	}

	record := toDomain(plate)
	return &record, nil
}

// Delete removes a record by canonical key. Deleting an absent key is a no-op.
func (r *PlateRepository) Delete(ctx context.Context, plateNumber string) error {
	err := r.db.WithContext(ctx).
		Where("plate_number = ?", plateNumber).
		Delete(&Plate{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete plate: %w", err)
	}
	return nil
}

// ListAll returns the full registry snapshot in insertion order.
func (r *PlateRepository) ListAll(ctx context.Context) ([]registry.PlateRecord, error) {
	var plates []Plate
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&plates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plates: %w", err)
	}

	records := make([]registry.PlateRecord, 0, len(plates))
	for _, p := range plates {
		records = append(records, toDomain(p))
	}
	return records, nil
}

func toDomain(p Plate) registry.PlateRecord {
	return registry.PlateRecord{
		PlateNumber: p.PlateNumber,
		OwnerName:   p.OwnerName,
		Department:  p.Department,
		CreatedAt:   p.CreatedAt,
	}
}
