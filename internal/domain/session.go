package domain

import "time"

// OutletRef identifies the business unit a terminal operates under. Every
// outbound payload carries it.
type OutletRef struct {
	UnitCode    string `json:"unit_cd"`
	CompanyCode string `json:"company_cd"`
	BranchCode  string `json:"branch_cd"`
}

// UserRef identifies the cashier driving the terminal.
type UserRef struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// GuestInfo is the party composition captured before an order is created.
type GuestInfo struct {
	Name  string `json:"name"`
	Men   int    `json:"men"`
	Women int    `json:"women"`
	Total int    `json:"total"`
}

type TableRef struct {
	TableCode string `json:"tbl_cd"`
	FloorCode string `json:"floor_cd"`
}

// TableDraftOrder is the ephemeral pre-cart context created when a table is
// selected in dine-in mode. It is consumed once an order is created from it.
type TableDraftOrder struct {
	Table  TableRef  `json:"table"`
	Guests GuestInfo `json:"guests"`
}

// ActiveTableSession is a table's in-progress order: created on successful
// order submission, destroyed when its payment settles. At most one exists
// per table code.
type ActiveTableSession struct {
	Table         TableRef  `json:"table"`
	Guests        GuestInfo `json:"guests"`
	RemoteOrderID string    `json:"pos_order_no"`
	StartedAt     time.Time `json:"started_at"`
}
