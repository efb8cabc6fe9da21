package destination

import (
	"context"
	"fmt"
)

// Filter selects pages whose Property equals or contains a value. A non-empty
// Contains selects substring matching; otherwise Equals is matched exactly,
// so an empty Equals only matches pages without a value. An empty Property
// selects every page.
type Filter struct {
	Property string
	Kind     PropertyKind
	Equals   string
	Contains string
}

// Store is a collection-oriented page store.
type Store interface {
	Query(ctx context.Context, collection string, filter Filter) ([]Page, error)
	Create(ctx context.Context, collection string, props Properties) (string, error)
	Update(ctx context.Context, pageID string, props Properties) error
}

// StoreError wraps a failed store call.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("destination: %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("destination: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
