package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lpr-service/internal/domain/registry"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (RecognitionEvent) TableName() string {
	return "recognition_events"
}

type RecognitionEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Status       string    `gorm:"not null"`
	MatchedPlate *string
	Candidates   datatypes.JSON `gorm:"type:jsonb"`
	SnapshotURL  *string
	CreatedAt    time.Time
}

// Create persists one recognition pass and fills in the generated event ID.
func (r *EventRepository) Create(ctx context.Context, event *registry.RecognitionEvent) error {
	candidates := event.Candidates
	if candidates == nil {
		candidates = []string{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	dbEvent := RecognitionEvent{
		ID:           uuid.New(),
		Status:       string(event.Status),
		MatchedPlate: event.MatchedPlate,
		Candidates:   datatypes.JSON(raw),
		SnapshotURL:  event.SnapshotURL,
		CreatedAt:    time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&dbEvent).Error; err != nil {
		return fmt.Errorf("failed to create recognition event: %w", err)
	}

	event.ID = dbEvent.ID
	event.CreatedAt = dbEvent.CreatedAt
	return nil
}

// FindRecent returns recognition events newest-first.
func (r *EventRepository) FindRecent(ctx context.Context, limit, offset int) ([]registry.RecognitionEvent, error) {
	query := r.db.WithContext(ctx).Model(&RecognitionEvent{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var events []RecognitionEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to find recognition events: %w", err)
	}

	result := make([]registry.RecognitionEvent, 0, len(events))
	for _, e := range events {
		var candidates []string
		if len(e.Candidates) > 0 {
			if err := json.Unmarshal(e.Candidates, &candidates); err != nil {
				return nil, fmt.Errorf("unmarshal candidates: %w", err)
			}
		}
		result = append(result, registry.RecognitionEvent{
			ID:           e.ID,
			Status:       registry.MatchStatus(e.Status),
			MatchedPlate: e.MatchedPlate,
			Candidates:   candidates,
			SnapshotURL:  e.SnapshotURL,
			CreatedAt:    e.CreatedAt,
		})
	}
	return result, nil
}
