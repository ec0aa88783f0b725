package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Members   []*Member
}

type Member struct {
	ID        string
	GroupID   string
	Name      string
	UPIID     string
	VenmoID   string
	CreatedAt time.Time
}

type Bill struct {
	ID        string
	GroupID   string
	RawText   string
	Total     decimal.NullDecimal
	ScanKey   string
	MimeType  string
	CreatedAt time.Time
	Items     []*Item
}

type Item struct {
	ID          string
	BillID      string
	Description string
	Price       decimal.Decimal
}

// Assignment is one member's computed amount for one item. The set of
// assignments for an item is fully replaced whenever shares are resubmitted
// for that item.
type Assignment struct {
	ID       string
	ItemID   string
	MemberID string
	Amount   decimal.Decimal
}
