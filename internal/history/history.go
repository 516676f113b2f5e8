// Package history tracks the products a visitor has recently viewed. Only
// product ids are stored; products themselves are always fetched fresh.
package history

import "context"

// Store records and lists recently viewed product ids per visitor.
type Store interface {
	// Record moves productID to the front of the visitor's list.
	Record(ctx context.Context, visitorID string, productID int) error
	// Recent returns the visitor's ids, newest first.
	Recent(ctx context.Context, visitorID string) ([]string, error)
}

// Noop is used when no Redis is configured.
type Noop struct{}

// Record does nothing.
func (Noop) Record(context.Context, string, int) error { return nil }

// Recent returns no ids.
func (Noop) Recent(context.Context, string) ([]string, error) { return nil, nil }
