package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"class-sync/core/destination"
)

// memStore is an in-memory destination.Store.
type memStore struct {
	mu          sync.Mutex
	collections map[string][]destination.Page
	byID        map[string]string // page id -> collection
	nextID      int

	creates atomic.Int64
	updates atomic.Int64
	queries atomic.Int64

	failCreate map[string]error // collection -> error
	failQuery  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		collections: map[string][]destination.Page{},
		byID:        map[string]string{},
		failCreate:  map[string]error{},
		failQuery:   map[string]error{},
	}
}

func (s *memStore) seed(collection string, props destination.Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(collection, props)
}

func (s *memStore) insert(collection string, props destination.Properties) string {
	s.nextID++
	id := fmt.Sprintf("%s-page-%d", collection, s.nextID)
	cp := destination.Properties{}
	for k, v := range props {
		cp[k] = v
	}
	s.collections[collection] = append(s.collections[collection], destination.Page{ID: id, Properties: cp})
	s.byID[id] = collection
	return id
}

func (s *memStore) Query(ctx context.Context, collection string, f destination.Filter) ([]destination.Page, error) {
	s.queries.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failQuery[collection]; err != nil {
		return nil, &destination.StoreError{Op: "query", Collection: collection, Err: err}
	}
	var out []destination.Page
	for _, p := range s.collections[collection] {
		if f.Property == "" {
			out = append(out, clonePage(p))
			continue
		}
		for _, v := range p.Properties[f.Property].Values() {
			if v == f.Equals {
				out = append(out, clonePage(p))
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, collection string, props destination.Properties) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCreate[collection]; err != nil {
		return "", &destination.StoreError{Op: "create", Collection: collection, Err: err}
	}
	s.creates.Add(1)
	return s.insert(collection, props), nil
}

func (s *memStore) Update(ctx context.Context, pageID string, props destination.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.byID[pageID]
	if !ok {
		return &destination.StoreError{Op: "update", Err: errors.New("not found")}
	}
	s.updates.Add(1)
	pages := s.collections[collection]
	for i := range pages {
		if pages[i].ID == pageID {
			for k, v := range props {
				pages[i].Properties[k] = v
			}
		}
	}
	return nil
}

func (s *memStore) pages(collection string) []destination.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]destination.Page, 0, len(s.collections[collection]))
	for _, p := range s.collections[collection] {
		out = append(out, clonePage(p))
	}
	return out
}

func clonePage(p destination.Page) destination.Page {
	cp := destination.Properties{}
	for k, v := range p.Properties {
		cp[k] = v
	}
	return destination.Page{ID: p.ID, Properties: cp}
}

func (s *memStore) writes() int64 {
	return s.creates.Load() + s.updates.Load()
}

// withoutLastSynced drops the always-refreshed timestamp for state comparisons.
func withoutLastSynced(pages []destination.Page) []destination.Page {
	out := make([]destination.Page, 0, len(pages))
	for _, p := range pages {
		cp := destination.Properties{}
		for k, v := range p.Properties {
			if k != "Last Synced" {
				cp[k] = v
			}
		}
		out = append(out, destination.Page{ID: p.ID, Properties: cp})
	}
	return out
}
