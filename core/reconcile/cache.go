package reconcile

import (
	"context"
	"sync"

	"class-sync/core/destination"

	"golang.org/x/sync/singleflight"
)

// CourseCache resolves course names to course planner page ids for one run.
// Hits and misses are both cached; store errors are not. Concurrent lookups
// of the same name share one query.
type CourseCache struct {
	store      destination.Store
	collection string
	schema     destination.Schema

	mu  sync.RWMutex
	ids map[string]string
	sf  singleflight.Group
}

// NewCourseCache creates an empty cache over the course planner collection.
func NewCourseCache(store destination.Store, collection string, schema destination.Schema) *CourseCache {
	return &CourseCache{
		store:      store,
		collection: collection,
		schema:     schema,
		ids:        make(map[string]string),
	}
}

// Resolve returns the page id of the course named name, or ErrCourseNotFound.
func (c *CourseCache) Resolve(ctx context.Context, name string) (string, error) {
	if c == nil || c.collection == "" || name == "" {
		return "", ErrCourseNotFound
	}

	// Fast path
	c.mu.RLock()
	id, cached := c.ids[name]
	c.mu.RUnlock()
	if cached {
		return found(id)
	}

	result, err, _ := c.sf.Do(name, func() (interface{}, error) {
		c.mu.RLock()
		id, cached := c.ids[name]
		c.mu.RUnlock()
		if cached {
			return id, nil
		}

		filter, err := c.schema.Equals(destination.FieldCourseName, name)
		if err != nil {
			return "", err
		}
		pages, err := c.store.Query(ctx, c.collection, filter)
		if err != nil {
			return "", err
		}
		if len(pages) > 0 {
			id = pages[0].ID
		}

		c.mu.Lock()
		c.ids[name] = id
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return found(result.(string))
}

func found(id string) (string, error) {
	if id == "" {
		return "", ErrCourseNotFound
	}
	return id, nil
}

// KeyedMutex serializes work per key. Entries are dropped once unused.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty lock table.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
