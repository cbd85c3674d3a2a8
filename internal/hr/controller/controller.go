// Package controller implements the core business logic (service layer)
// for the HR entities. Each service composes the generic document store
// with entity-specific defaults: soft delete via the isActive flag,
// audit-timestamp stamping, default sort order and stat aggregation.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/hrms/internal/hr/errors"
	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/store"
)

// Store defines the document-store interface services depend on.
type Store interface {
	GetCollection(ctx context.Context, name string, opts *store.Options) ([]store.Fields, error)
	GetDocument(ctx context.Context, name, id string) (store.Fields, error)
	AddDocument(ctx context.Context, name string, fields store.Fields) (store.Fields, error)
	UpdateDocument(ctx context.Context, name, id string, partial store.Fields) (store.Fields, error)
	DeleteDocument(ctx context.Context, name, id string) error
	QueryDocuments(ctx context.Context, name, field string, op store.Op, value any) ([]store.Fields, error)
}

// EventProducer publishes entity-change events.
type EventProducer interface {
	Produce(eventType events.EventType, collection, entityID string, payload any)
}

// encode converts an entity into a document field map via its JSON
// form, dropping the id so the store stays the sole id authority.
// Going through JSON also strips fields marked omitempty, mirroring
// the "no undefined values reach the store" contract.
func encode(v any) (store.Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	var fields store.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	delete(fields, "id")
	return fields, nil
}

// decode converts a document field map into a typed entity.
func decode[T any](doc store.Fields) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &v, nil
}

func decodeAll[T any](docs []store.Fields) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// matchSearch reports whether term is a case-insensitive substring of
// any of the candidate fields. An empty term matches everything.
func matchSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// inRange reports whether ts falls inside the inclusive [from, to]
// window. Nil bounds do not constrain.
func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}

// createdToday counts via local midnight, matching how the pages the
// stats feed always displayed "today" in the viewer's timezone.
func createdToday(ts time.Time) bool {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !ts.Local().Before(midnight)
}
