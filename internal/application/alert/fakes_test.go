package alert

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
)

// memoryAlertRepository enforces one active alert per (type, entity) like the database index
type memoryAlertRepository struct {
	mu     sync.Mutex
	alerts map[uuid.UUID]*alert.Alert
}

func newMemoryAlertRepository() *memoryAlertRepository {
	return &memoryAlertRepository{alerts: make(map[uuid.UUID]*alert.Alert)}
}

func (r *memoryAlertRepository) Create(_ context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.Status == alert.StatusActive && existing.Type == a.Type && existing.EntityID == a.EntityID {
			return shared.ErrAlreadyExists
		}
	}
	stored := *a
	r.alerts[a.ID] = &stored
	return nil
}

func (r *memoryAlertRepository) ExistsActive(_ context.Context, alertType alert.AlertType, entityID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.Status == alert.StatusActive && existing.Type == alertType && existing.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAlertRepository) FindByID(_ context.Context, id uuid.UUID) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memoryAlertRepository) Save(_ context.Context, a *alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[a.ID]; !ok {
		return shared.ErrNotFound
	}
	stored := *a
	r.alerts[a.ID] = &stored
	return nil
}

func (r *memoryAlertRepository) FindActive(_ context.Context, filter alert.Filter) ([]alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]alert.Alert, 0)
	for _, a := range r.alerts {
		if a.Status != alert.StatusActive {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryAlertRepository) Counts(_ context.Context) (alert.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := alert.Counts{
		ByStatus:   map[alert.Status]int64{},
		ByPriority: map[alert.Priority]int64{},
		ByType:     map[alert.AlertType]int64{},
	}
	for _, a := range r.alerts {
		counts.ByStatus[a.Status]++
		if a.Status == alert.StatusActive {
			counts.ByPriority[a.Priority]++
			counts.ByType[a.Type]++
		}
	}
	return counts, nil
}

func (r *memoryAlertRepository) FindActiveOlderThan(_ context.Context, cutoff time.Time) ([]alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]alert.Alert, 0)
	for _, a := range r.alerts {
		if a.Status == alert.StatusActive && a.CreatedAt.Before(cutoff) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *memoryAlertRepository) all() []*alert.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*alert.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		result = append(result, a)
	}
	return result
}

type fakeExpiringFinder struct {
	batches []catalog.Batch
	err     error
}

func (f *fakeExpiringFinder) FindExpiringBatches(_ context.Context, _ int) ([]catalog.Batch, error) {
	return f.batches, f.err
}

type fakeBatchRepository struct {
	catalog.BatchRepository
	expired []catalog.Batch
	marked  []uuid.UUID
	// beforeMark runs ahead of each status flip, standing in for a concurrent writer
	beforeMark func(id uuid.UUID)
}

func (r *fakeBatchRepository) FindExpired(_ context.Context, _ time.Time) ([]catalog.Batch, error) {
	result := make([]catalog.Batch, 0, len(r.expired))
	for _, b := range r.expired {
		if b.Status == catalog.BatchStatusInStock {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBatchRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Batch, error) {
	for i := range r.expired {
		if r.expired[i].ID == id {
			b := r.expired[i]
			return &b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepository) MarkExpired(_ context.Context, id uuid.UUID) error {
	if r.beforeMark != nil {
		r.beforeMark(id)
	}
	for i := range r.expired {
		if r.expired[i].ID == id && r.expired[i].Status == catalog.BatchStatusInStock {
			r.expired[i].Status = catalog.BatchStatusExpired
			r.marked = append(r.marked, id)
			return nil
		}
	}
	return shared.ErrConcurrencyConflict
}

type fakeRecordRepository struct {
	inventory.RecordRepository
	low []inventory.InventoryRecord
	err error
}

func (r *fakeRecordRepository) FindBelowReorderPoint(_ context.Context) ([]inventory.InventoryRecord, error) {
	return r.low, r.err
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
