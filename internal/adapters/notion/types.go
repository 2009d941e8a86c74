package notion

import (
	"encoding/json"
	"strings"
)

// Page is a document returned by a database query.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is a tagged union over the property variants the console
// consumes: title/rich text, number (direct, rollup or formula),
// single/multi select and relation lists. The same shape doubles as the
// write payload for page creation and patching.
type Property struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Relation    []RelationRef  `json:"relation,omitempty"`
	Rollup      *Rollup        `json:"rollup,omitempty"`
	Formula     *Formula       `json:"formula,omitempty"`
}

// RichText is one fragment of a title or rich text value.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable part of a rich text fragment.
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption names one select or multi-select choice.
type SelectOption struct {
	Name string `json:"name"`
}

// RelationRef points at another page.
type RelationRef struct {
	ID string `json:"id"`
}

// Rollup is a computed aggregate over a relation.
type Rollup struct {
	Type   string   `json:"type,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

// Formula is a computed property value.
type Formula struct {
	Type   string   `json:"type,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

// PlainText joins the title or rich text fragments of the property,
// preferring plain_text when present (query results) and falling back
// to the writable content (round-tripped payloads).
func (p Property) PlainText() string {
	frags := p.Title
	if len(frags) == 0 {
		frags = p.RichText
	}
	var b strings.Builder
	for _, f := range frags {
		if f.PlainText != "" {
			b.WriteString(f.PlainText)
			continue
		}
		if f.Text != nil {
			b.WriteString(f.Text.Content)
		}
	}
	return b.String()
}

// NumberValue returns whichever numeric variant is populated: a direct
// number, a rollup number, or a formula number. The second return is
// false when the property holds no numeric value at all.
func (p Property) NumberValue() (float64, bool) {
	switch {
	case p.Number != nil:
		return *p.Number, true
	case p.Rollup != nil && p.Rollup.Number != nil:
		return *p.Rollup.Number, true
	case p.Formula != nil && p.Formula.Number != nil:
		return *p.Formula.Number, true
	}
	return 0, false
}

// IsDirectNumber reports whether the property stores a plain editable
// number, as opposed to a rollup or formula that only the backend may
// recompute.
func (p Property) IsDirectNumber() bool {
	return p.Type == "number" || (p.Type == "" && p.Number != nil)
}

// SelectName returns the select choice, or the first multi-select
// choice when the property is a multi-select.
func (p Property) SelectName() string {
	if p.Select != nil {
		return p.Select.Name
	}
	if len(p.MultiSelect) > 0 {
		return p.MultiSelect[0].Name
	}
	return ""
}

// FirstRelation returns the first related page id. Used where exactly
// one relation is expected.
func (p Property) FirstRelation() string {
	if len(p.Relation) == 0 {
		return ""
	}
	return p.Relation[0].ID
}

// Write-side property constructors.

// NewTitle builds a title property.
func NewTitle(text string) Property {
	return Property{Title: []RichText{{Text: &TextContent{Content: text}}}}
}

// NewNumber builds a number property.
func NewNumber(value float64) Property {
	return Property{Number: &value}
}

// NewSelect builds a select property.
func NewSelect(name string) Property {
	return Property{Select: &SelectOption{Name: name}}
}

// NewRelation builds a relation property.
func NewRelation(ids ...string) Property {
	refs := make([]RelationRef, len(ids))
	for i, id := range ids {
		refs[i] = RelationRef{ID: id}
	}
	return Property{Relation: refs}
}

// Filter is a query condition: either a single property condition or a
// conjunction of sub-filters. Only the condition kinds the console uses
// are modeled.
type Filter struct {
	Property string
	Title    *TextCondition
	Select   *SelectCondition
	Relation *RelationCondition
	And      []Filter
}

// TextCondition matches title or rich text properties.
type TextCondition struct {
	Contains string `json:"contains,omitempty"`
	Equals   string `json:"equals,omitempty"`
}

// SelectCondition matches select properties.
type SelectCondition struct {
	Equals string `json:"equals,omitempty"`
}

// RelationCondition matches relation list properties.
type RelationCondition struct {
	Contains string `json:"contains,omitempty"`
}

// MarshalJSON renders the wire shape the backend expects: {"and": [...]}
// for conjunctions, {"property": ..., "<kind>": {...}} otherwise.
func (f Filter) MarshalJSON() ([]byte, error) {
	if len(f.And) > 0 {
		return json.Marshal(map[string]any{"and": f.And})
	}
	m := map[string]any{"property": f.Property}
	switch {
	case f.Title != nil:
		m["title"] = f.Title
	case f.Select != nil:
		m["select"] = f.Select
	case f.Relation != nil:
		m["relation"] = f.Relation
	}
	return json.Marshal(m)
}

// And conjoins filters, flattening the trivial single-filter case.
func And(filters ...Filter) *Filter {
	if len(filters) == 1 {
		return &filters[0]
	}
	return &Filter{And: filters}
}
