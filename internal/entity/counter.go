package entity

import "github.com/uptrace/bun"

// MaxDailyOrders caps the per-day sequence; short ids range 0001..9999.
const MaxDailyOrders = 9999

// DailyCounter tracks the last issued order sequence number for a calendar
// day (UTC, formatted YYYY-MM-DD). Rows are created lazily on first use and
// never deleted; LastID only moves forward.
type DailyCounter struct {
	bun.BaseModel `bun:"table:daily_counters,alias:daily_counter"`

	Day    string `bun:"day,pk"`
	LastID int    `bun:"last_id"`
}
