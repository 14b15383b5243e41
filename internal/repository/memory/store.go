// Package memory is an in-process store used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/repository"
)

// Store keeps every collection in maps guarded by one mutex. Watchers receive
// a notification after each write to the collection they follow.
type Store struct {
	mu       sync.RWMutex
	ledger   map[string]models.LedgerRecord
	staff    []models.StaffMember
	samples  []models.ScalingSample
	reports  []models.MonthlyReport
	watchers map[string][]chan struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ledger:   make(map[string]models.LedgerRecord),
		watchers: make(map[string][]chan struct{}),
	}
}

// UpsertLedger overwrites the record stored under rec.Key and reports whether it was new.
func (s *Store) UpsertLedger(ctx context.Context, rec models.LedgerRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if rec.Key == "" {
		return false, fmt.Errorf("ledger record without key")
	}

	s.mu.Lock()
	_, exists := s.ledger[rec.Key]
	s.ledger[rec.Key] = rec
	s.mu.Unlock()

	s.notify(repository.CollectionLedger)
	return !exists, nil
}

// GetLedger returns the record stored under key.
func (s *Store) GetLedger(ctx context.Context, key string) (models.LedgerRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.LedgerRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.ledger[key]
	if !ok {
		return models.LedgerRecord{}, fmt.Errorf("ledger %s: %w", key, repository.ErrNotFound)
	}
	return rec, nil
}

// DeleteLedger removes the record stored under key.
func (s *Store) DeleteLedger(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	_, ok := s.ledger[key]
	delete(s.ledger, key)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("ledger %s: %w", key, repository.ErrNotFound)
	}
	s.notify(repository.CollectionLedger)
	return nil
}

// ListLedger returns the records dated within [from, to], ordered by date then key.
func (s *Store) ListLedger(ctx context.Context, from, to string) ([]models.LedgerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]models.LedgerRecord, 0)
	for _, rec := range s.ledger {
		if rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// ListStaff returns the staff registry in insertion order.
func (s *Store) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.StaffMember(nil), s.staff...), nil
}

// PutStaff replaces or appends a staff member.
func (s *Store) PutStaff(member models.StaffMember) {
	s.mu.Lock()
	replaced := false
	for i := range s.staff {
		if s.staff[i].ID == member.ID {
			s.staff[i] = member
			replaced = true
			break
		}
	}
	if !replaced {
		s.staff = append(s.staff, member)
	}
	s.mu.Unlock()

	s.notify(repository.CollectionStaff)
}

// ListSamples returns the descaling samples dated within [from, to]. Empty
// bounds are open.
func (s *Store) ListSamples(ctx context.Context, from, to string) ([]models.ScalingSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScalingSample, 0, len(s.samples))
	for _, sample := range s.samples {
		if (from == "" || sample.Date >= from) && (to == "" || sample.Date <= to) {
			out = append(out, sample)
		}
	}
	return out, nil
}

// PutSample appends a descaling sample.
func (s *Store) PutSample(sample models.ScalingSample) {
	s.mu.Lock()
	s.samples = append(s.samples, sample)
	s.mu.Unlock()

	s.notify(repository.CollectionSamples)
}

// SaveMonthlyReport stores a generated monthly report.
func (s *Store) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()
	return nil
}

// Reports returns the stored monthly reports.
func (s *Store) Reports() []models.MonthlyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MonthlyReport(nil), s.reports...)
}

// Watch notifies on every write to collection until ctx is done.
func (s *Store) Watch(ctx context.Context, collection string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[collection] = append(s.watchers[collection], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.watchers[collection]
		for i, c := range subs {
			if c == ch {
				s.watchers[collection] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

// notify coalesces: a watcher that has not drained its last signal gets no second one.
func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
