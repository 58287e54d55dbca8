// Package catalog holds the read-only product catalog for one application
// session and the pure filter over it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrLoadFailed = errors.New("catalog load failed")
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store holds the loaded catalog. It starts in StateLoading and moves to
// StateReady or StateFailed after Load; a failed load leaves the product
// list empty and may be retried.
type Store struct {
	feed Feed
	sfg  singleflight.Group // collapses concurrent loads into one fetch

	mu       sync.RWMutex
	state    State
	products []domain.Product
	loadErr  error
}

func NewStore(feed Feed) *Store {
	return &Store{feed: feed, state: StateLoading}
}

func (s *Store) Load(ctx context.Context) error {
	_, err, _ := s.sfg.Do("load", func() (interface{}, error) {
		products, err := s.feed.Fetch(ctx)
		if err == nil {
			err = validate(products)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.state = StateFailed
			s.products = nil
			s.loadErr = fmt.Errorf("%w: %v", ErrLoadFailed, err)
			return nil, s.loadErr
		}
		s.state = StateReady
		s.products = products
		s.loadErr = nil
		return nil, nil
	})
	return err
}

func validate(products []domain.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the last load failure, nil unless State is StateFailed.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// List returns the catalog in feed order. Empty unless StateReady.
func (s *Store) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) FindByID(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

// Cooperatives returns the distinct cooperative labels in first-seen
// order, for building a filter dropdown.
func (s *Store) Cooperatives() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if p.Cooperative == "" {
			continue
		}
		if _, ok := seen[p.Cooperative]; ok {
			continue
		}
		seen[p.Cooperative] = struct{}{}
		out = append(out, p.Cooperative)
	}
	return out
}
