package model

import "time"

type TeamColor string

const (
	ColorBlue  TeamColor = "blue"
	ColorWhite TeamColor = "white"
)

func (c TeamColor) Valid() bool {
	return c == ColorBlue || c == ColorWhite
}

// User is an identity record. Color stays nil until the user's first point
// submission and is immutable afterwards. TeacherPoints is the staff award
// budget; it is only ever decremented by the admin-award flow.
type User struct {
	ID            uint64     `gorm:"column:users_id;primaryKey;autoIncrement"`
	Name          string     `gorm:"size:120;not null"`
	Email         string     `gorm:"size:254;not null;uniqueIndex:uk_users_email"`
	Color         *TeamColor `gorm:"size:16"`
	Admin         bool       `gorm:"not null;default:false"`
	TeacherPoints int        `gorm:"column:teacher_points;not null;default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// HasColor reports whether the user already picked a team.
func (u *User) HasColor() bool {
	return u.Color != nil && *u.Color != ""
}

// CanAwardPoints reports whether the user may use the admin award form.
func (u *User) CanAwardPoints() bool {
	return u.Admin || u.TeacherPoints > 0
}
