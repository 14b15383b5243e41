package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/service/header"
)

// DefaultPendingTTL is how long a paused import waits for its mapping.
const DefaultPendingTTL = 30 * time.Minute

// PendingImport is a parsed sheet waiting for a manual column mapping.
type PendingImport struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Sheet     string        `json:"sheet"`
	Header    header.Result `json:"header"`
	Grid      models.Grid   `json:"-"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// PendingStore keeps paused imports in memory until confirmed, cancelled or expired.
type PendingStore struct {
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]PendingImport
}

// NewPendingStore creates an empty store. A non-positive ttl uses DefaultPendingTTL.
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]PendingImport),
	}
}

// Open registers a new pending import.
func (p *PendingStore) Open(source, sheet string, grid models.Grid, h header.Result) PendingImport {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.evictLocked()
	session := PendingImport{
		ID:        uuid.NewString(),
		Source:    source,
		Sheet:     sheet,
		Header:    h,
		Grid:      grid,
		ExpiresAt: p.now().Add(p.ttl),
	}
	p.sessions[session.ID] = session
	return session
}

// Get returns a live pending import without consuming it.
func (p *PendingStore) Get(id string) (PendingImport, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	session, ok := p.sessions[id]
	if !ok || p.now().After(session.ExpiresAt) {
		return PendingImport{}, false
	}
	return session, true
}

// Take removes and returns a live pending import.
func (p *PendingStore) Take(id string) (PendingImport, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[id]
	if !ok {
		return PendingImport{}, false
	}
	delete(p.sessions, id)
	if p.now().After(session.ExpiresAt) {
		return PendingImport{}, false
	}
	return session, true
}

// Len reports the number of sessions held, expired ones included until the next Open.
func (p *PendingStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

func (p *PendingStore) evictLocked() {
	now := p.now()
	for id, session := range p.sessions {
		if now.After(session.ExpiresAt) {
			delete(p.sessions, id)
		}
	}
}
