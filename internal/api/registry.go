// internal/api/registry.go
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobsearch-gateway/internal/common/logger"
	"jobsearch-gateway/internal/common/metrics"
	"jobsearch-gateway/internal/search/controller"
	"jobsearch-gateway/internal/search/listing"
)

// Session binds one controller to its public id. LocationOptions are fetched
// once at session start and held for the session's lifetime.
type Session struct {
	ID              string
	Controller      *controller.Controller
	LocationOptions []listing.LocationOption
	CreatedAt       time.Time

	lastTouched time.Time // guarded by the registry mutex
}

// Registry owns all live sessions. Any access through Get counts as activity;
// sessions idle past the TTL are closed and evicted by the sweeper.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   logger.Logger
}

func NewRegistry(ttl time.Duration, log logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   log.WithFields(map[string]interface{}{"component": "session-registry"}),
	}
}

// Add registers a controller under a fresh id and returns the session.
func (r *Registry) Add(ctrl *controller.Controller, locations []listing.LocationOption) *Session {
	now := time.Now()
	s := &Session{
		ID:              uuid.NewString(),
		Controller:      ctrl,
		LocationOptions: locations,
		CreatedAt:       now,
		lastTouched:     now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	metrics.ActiveSessions.Inc()
	r.logger.Info("session created", map[string]interface{}{"sessionId": s.ID})
	return s
}

// Get returns the session and refreshes its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.lastTouched = time.Now()
	}
	return s, ok
}

// Remove closes the session's controller and drops it. Reports whether the
// session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.Controller.Close()
	metrics.ActiveSessions.Dec()
	r.logger.Info("session removed", map[string]interface{}{"sessionId": id})
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartSweeper evicts idle sessions on the given interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.evictIdle(time.Now())
			}
		}
	}()
}

func (r *Registry) evictIdle(now time.Time) {
	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if now.Sub(s.lastTouched) > r.ttl {
			delete(r.sessions, id)
			expired = append(expired, s)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Controller.Close()
		metrics.ActiveSessions.Dec()
		r.logger.Info("idle session evicted", map[string]interface{}{
			"sessionId": s.ID,
			"idleFor":   now.Sub(s.lastTouched).String(),
		})
	}
}

// Close evicts every session, closing their controllers. Used at shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Controller.Close()
		metrics.ActiveSessions.Dec()
	}
}
