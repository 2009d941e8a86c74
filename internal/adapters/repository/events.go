package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rankdesk/internal/adapters/notion"
	"github.com/okian/rankdesk/internal/domain/member"
)

// EventStore looks events up in the event catalog database.
type EventStore struct {
	api         backendAPI
	databaseID  string
	schema      Schema
	minorMarker string
}

// NewEventStore creates a store over the event database. minorMarker is
// the substring of the event type that flags a minor (half-points)
// event.
func NewEventStore(api backendAPI, databaseID string, schema Schema, minorMarker string) *EventStore {
	return &EventStore{api: api, databaseID: databaseID, schema: schema, minorMarker: minorMarker}
}

// FindByName looks an event up by title substring. Zero matches is
// ErrEventNotFound; more than one is ErrAmbiguousEvent rather than a
// silent first-match pick, since awarding points against the wrong
// event corrupts the ledger.
func (s *EventStore) FindByName(ctx context.Context, name string) (member.Event, error) {
	name = strings.TrimSpace(name)
	filter := &notion.Filter{
		Property: s.schema.EventName,
		Title:    &notion.TextCondition{Contains: name},
	}

	res, err := s.api.QueryDatabase(ctx, s.databaseID, notion.Query{Filter: filter})
	if err != nil {
		return member.Event{}, fmt.Errorf("find event %q: %w", name, err)
	}
	switch len(res.Results) {
	case 0:
		return member.Event{}, fmt.Errorf("%w: %q", ErrEventNotFound, name)
	case 1:
	default:
		return member.Event{}, fmt.Errorf("%w: %q matches %d events", ErrAmbiguousEvent, name, len(res.Results))
	}

	page := res.Results[0]
	eventType := page.Properties[s.schema.EventType].SelectName()
	return member.Event{
		ID:    page.ID,
		Name:  strings.TrimSpace(page.Properties[s.schema.EventName].PlainText()),
		Type:  eventType,
		Minor: s.minorMarker != "" && strings.Contains(eventType, s.minorMarker),
	}, nil
}
