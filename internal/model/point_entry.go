package model

import "time"

// PointEntry is one row of the append-only points ledger. Entries are never
// updated or deleted; totals are always recomputed from this table.
// UserID is nil when an admin awards points to a team without a recipient.
type PointEntry struct {
	ID               uint64    `gorm:"column:points_id;primaryKey;autoIncrement"`
	UserID           *uint64   `gorm:"column:users_id;index"`
	Color            TeamColor `gorm:"size:16;not null"`
	EventDate        string    `gorm:"column:event_date;size:32;not null"`
	EventType        string    `gorm:"column:event_type;size:64;not null"`
	EventDescription string    `gorm:"column:event_description;type:text;not null"`
	NumPoints        int       `gorm:"column:num_points;not null"`
	AddedBy          uint64    `gorm:"column:added_by;index;not null"`
	CreatedTime      time.Time `gorm:"column:created_time;autoCreateTime"`
}

func (PointEntry) TableName() string {
	return "points"
}

// EventTypes is the canonical category list offered in submission forms.
// Submitted values are stored as-is and not checked against it.
var EventTypes = []string{
	"academic",
	"basketball",
	"bowling",
	"cross country",
	"golf",
	"lacrosse",
	"mock trial",
	"music",
	"service",
	"soccer",
	"swimming",
	"tennis",
	"theater",
	"track and field",
	"trap",
	"volleyball",
	"other",
}
