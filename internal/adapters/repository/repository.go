// Package repository maps the backend's document databases onto the
// domain: the member directory, the event catalog and the history
// ledger. Each store wraps the backend client with one database id and
// the property schema of the live workspace.
package repository

import (
	"context"

	"github.com/okian/rankdesk/internal/adapters/notion"
)

// backendAPI is the slice of the backend client the stores consume.
type backendAPI interface {
	QueryDatabase(ctx context.Context, databaseID string, q notion.Query) (*notion.QueryResult, error)
	QueryDatabaseAll(ctx context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error)
	CreatePage(ctx context.Context, databaseID string, props map[string]notion.Property) error
	PatchPage(ctx context.Context, pageID string, props map[string]notion.Property) error
}

// Schema names the backend properties the stores read and write. The
// defaults match the production workspace; every name is configurable
// because operators own their databases.
type Schema struct {
	MemberName       string // title
	MemberScore      string // number, rollup or formula
	MemberAttendance string // number
	MemberRank       string // number

	EventName string // title
	EventType string // select or multi-select

	HistoryTitle  string // title
	HistoryMember string // relation to the member database
	HistoryEvent  string // relation to the event database
	HistoryPoints string // number
	HistoryKind   string // select: placement | bonus
}

// DefaultSchema returns the property names of the production workspace.
func DefaultSchema() Schema {
	return Schema{
		MemberName:       "ชื่อ",
		MemberScore:      "คะแนน Rank SS2",
		MemberAttendance: "จำนวนงาน",
		MemberRank:       "อันดับ",
		EventName:        "ชื่อกิจกรรม",
		EventType:        "ประเภทงาน",
		HistoryTitle:     "Name",
		HistoryMember:    "สมาชิกแรงค์",
		HistoryEvent:     "ชื่องานแข่ง",
		HistoryPoints:    "คะแนนที่บวก",
		HistoryKind:      "ประเภทรายการ",
	}
}
