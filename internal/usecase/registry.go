package usecase

import (
	"sync"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

// Registry maps match ids to live matches. It is purely in-memory.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*entity.Match
}

func NewRegistry() *Registry {
	return &Registry{
		matches: make(map[string]*entity.Match),
	}
}

// GetOrCreate - returns the match for id, creating it when absent.
func (that *Registry) GetOrCreate(id string) (*entity.Match, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if match, ok := that.matches[id]; ok {
		return match, false
	}

	match := entity.NewMatch(id)
	that.matches[id] = match

	return match, true
}

func (that *Registry) Get(id string) (*entity.Match, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	match, ok := that.matches[id]
	return match, ok
}

func (that *Registry) Remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.matches, id)
}

// RemoveIfEmpty drops the match only when no players remain.
func (that *Registry) RemoveIfEmpty(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, ok := that.matches[id]
	if !ok || !match.IsEmpty() {
		return false
	}

	delete(that.matches, id)
	return true
}

// RemoveIdle drops empty waiting matches untouched since before cutoff and returns their ids.
func (that *Registry) RemoveIdle(cutoff time.Time) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var removed []string
	for id, match := range that.matches {
		if match.IsIdleSince(cutoff) {
			delete(that.matches, id)
			removed = append(removed, id)
		}
	}

	return removed
}

func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.matches)
}
