package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lpr-service/internal/domain/registry"
	"lpr-service/internal/ocr"
	"lpr-service/internal/repository"
)

// fakePlateStore is an in-memory PlateStore with the same contract as the
// Postgres repository: key collisions fail, deletes are idempotent, lookups
// miss with (nil, nil).
type fakePlateStore struct {
	records map[string]registry.PlateRecord
	order   []string
	lookups int
}

func newFakePlateStore() *fakePlateStore {
	return &fakePlateStore{records: make(map[string]registry.PlateRecord)}
}

func (f *fakePlateStore) Insert(_ context.Context, plateNumber, ownerName, department string) error {
	if _, ok := f.records[plateNumber]; ok {
		return repository.ErrAlreadyExists
	}
	f.records[plateNumber] = registry.PlateRecord{
		PlateNumber: plateNumber,
		OwnerName:   ownerName,
		Department:  department,
		CreatedAt:   time.Now(),
	}
	f.order = append(f.order, plateNumber)
	return nil
}

func (f *fakePlateStore) FindByNumber(_ context.Context, plateNumber string) (*registry.PlateRecord, error) {
	f.lookups++
	rec, ok := f.records[plateNumber]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakePlateStore) Delete(_ context.Context, plateNumber string) error {
	if _, ok := f.records[plateNumber]; !ok {
		return nil
	}
	delete(f.records, plateNumber)
	for i, p := range f.order {
		if p == plateNumber {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakePlateStore) ListAll(_ context.Context) ([]registry.PlateRecord, error) {
	records := make([]registry.PlateRecord, 0, len(f.order))
	for _, p := range f.order {
		records = append(records, f.records[p])
	}
	return records, nil
}

type fakeEventStore struct {
	events []registry.RecognitionEvent
}

func (f *fakeEventStore) Create(_ context.Context, event *registry.RecognitionEvent) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventStore) FindRecent(_ context.Context, limit, offset int) ([]registry.RecognitionEvent, error) {
	result := make([]registry.RecognitionEvent, 0, len(f.events))
	for i := len(f.events) - 1; i >= 0; i-- {
		result = append(result, f.events[i])
	}
	if offset < len(result) {
		result = result[offset:]
	} else {
		result = nil
	}
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

type fakeEngine struct {
	detections []ocr.Detection
	err        error
}

func (f *fakeEngine) Detect(_ context.Context, _ string) ([]ocr.Detection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detections, nil
}

func (f *fakeEngine) Close() error {
	return nil
}
