// Package live keeps read-only projections of the staff registry and the
// descaling samples current with the store.
package live

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/repository"
	"github.com/moradafish/dashboard/internal/service/staff"
	"github.com/moradafish/dashboard/internal/service/yield"
)

// Source is the store the projector reads and follows.
type Source interface {
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	ListSamples(ctx context.Context, from, to string) ([]models.ScalingSample, error)
	Watch(ctx context.Context, collection string) (<-chan struct{}, error)
}

// Projector swaps immutable snapshots under a RWMutex whenever the underlying
// collections change. Readers never see a partially built snapshot.
type Projector struct {
	src    Source
	logger *zap.Logger

	newBackOff func() backoff.BackOff

	mu        sync.RWMutex
	index     *staff.Index
	approvals models.ApprovalMap
	updatedAt time.Time
}

// NewProjector creates a projector with empty snapshots; call Refresh or Run to fill them.
func NewProjector(src Source, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		src:       src,
		logger:    logger.Named("svc.live"),
		index:     staff.BuildIndex(nil),
		approvals: models.ApprovalMap{},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// StaffIndex returns the current staff index snapshot.
func (p *Projector) StaffIndex() *staff.Index {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.index
}

// Approvals returns the daily approvals dated within month.
func (p *Projector) Approvals(month models.Month) models.ApprovalMap {
	from, to := month.Range()

	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(models.ApprovalMap)
	for date, a := range p.approvals {
		if date >= from && date <= to {
			out[date] = a
		}
	}
	return out
}

// ApprovalList returns the daily approvals of month sorted by date.
func (p *Projector) ApprovalList(month models.Month) []models.DailyApproval {
	byDate := p.Approvals(month)
	out := make([]models.DailyApproval, 0, len(byDate))
	for _, a := range byDate {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UpdatedAt reports when a snapshot was last rebuilt.
func (p *Projector) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Refresh rebuilds both snapshots from the store.
func (p *Projector) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.refreshStaff(gctx) })
	g.Go(func() error { return p.refreshApprovals(gctx) })
	return g.Wait()
}

func (p *Projector) refreshStaff(ctx context.Context) error {
	members, err := p.src.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("load staff: %w", err)
	}
	idx := staff.BuildIndex(members)

	p.mu.Lock()
	p.index = idx
	p.updatedAt = time.Now()
	p.mu.Unlock()

	p.logger.Debug("staff index rebuilt", zap.Int("members", idx.Len()))
	return nil
}

func (p *Projector) refreshApprovals(ctx context.Context) error {
	samples, err := p.src.ListSamples(ctx, "", "")
	if err != nil {
		return fmt.Errorf("load scaling samples: %w", err)
	}
	approvals := yield.DailyApprovals(samples)

	p.mu.Lock()
	p.approvals = approvals
	p.updatedAt = time.Now()
	p.mu.Unlock()

	p.logger.Debug("approval aggregates rebuilt", zap.Int("samples", len(samples)), zap.Int("days", len(approvals)))
	return nil
}

// Run follows the staff and sample collections until ctx is done. Dropped
// watch streams are re-established with exponential backoff and followed by a
// full refresh, so no change is lost across a reconnect.
func (p *Projector) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.follow(gctx, repository.CollectionStaff, p.refreshStaff) })
	g.Go(func() error { return p.follow(gctx, repository.CollectionSamples, p.refreshApprovals) })
	return g.Wait()
}

func (p *Projector) follow(ctx context.Context, collection string, refresh func(context.Context) error) error {
	log := p.logger.With(zap.String("collection", collection))

	for ctx.Err() == nil {
		var changes <-chan struct{}
		subscribe := func() error {
			ch, err := p.src.Watch(ctx, collection)
			if err != nil {
				log.Warn("watch failed, retrying", zap.Error(err))
				return err
			}
			changes = ch
			return nil
		}
		if err := backoff.Retry(subscribe, backoff.WithContext(p.newBackOff(), ctx)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch %s: %w", collection, err)
		}

		if err := refresh(ctx); err != nil && ctx.Err() == nil {
			log.Error("refresh after subscribe failed", zap.Error(err))
		}

		for range changes {
			if err := refresh(ctx); err != nil && ctx.Err() == nil {
				log.Error("refresh failed", zap.Error(err))
			}
		}
		if ctx.Err() == nil {
			log.Info("watch stream closed, resubscribing")
		}
	}
	return nil
}
