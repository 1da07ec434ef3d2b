package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stmarysschool/points-backend/internal/model"
	"gorm.io/gorm"
)

// ErrInsufficientBudget is returned when an admin award would overdraw the
// caller's teacher_points.
var ErrInsufficientBudget = errors.New("insufficient teacher points")

type TeamTotal struct {
	Color  model.TeamColor `gorm:"column:color"`
	Points int             `gorm:"column:points"`
}

type LeaderboardRow struct {
	UserID uint64          `gorm:"column:user_id" json:"userId"`
	Name   string          `gorm:"column:name" json:"name"`
	Color  model.TeamColor `gorm:"column:color" json:"color"`
	Points int             `gorm:"column:points" json:"points"`
}

type RecentEntry struct {
	Name      string          `gorm:"column:name" json:"name"`
	Color     model.TeamColor `gorm:"column:color" json:"color"`
	EventDate string          `gorm:"column:event_date" json:"eventDate"`
	EventType string          `gorm:"column:event_type" json:"eventType"`
}

// ExportRow is the denormalized CSV projection of one ledger entry.
// Recipient columns are nil for team-only admin awards.
type ExportRow struct {
	UserID           *uint64   `gorm:"column:user_id"`
	Email            *string   `gorm:"column:email"`
	Name             *string   `gorm:"column:name"`
	UserColor        *string   `gorm:"column:user_color"`
	PointColor       string    `gorm:"column:point_color"`
	NumPoints        int       `gorm:"column:num_points"`
	EventDate        string    `gorm:"column:event_date"`
	EventType        string    `gorm:"column:event_type"`
	EventDescription string    `gorm:"column:event_description"`
	AddedByEmail     string    `gorm:"column:added_by_email"`
	CreatedTime      time.Time `gorm:"column:created_time"`
}

type PointRepository interface {
	Create(ctx context.Context, entry *model.PointEntry) error
	CreateAdminAward(ctx context.Context, adminID uint64, entry *model.PointEntry) error
	TeamTotals(ctx context.Context) ([]TeamTotal, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
	Recent(ctx context.Context, limit int) ([]RecentEntry, error)
	ExportRows(ctx context.Context) ([]ExportRow, error)
	SetDB(db *gorm.DB)
}

type pointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) Create(ctx context.Context, entry *model.PointEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateAdminAward spends adminID's budget and records the award in one
// transaction. The decrement is conditional on the remaining budget, so two
// concurrent awards by the same admin cannot double-spend; zero rows updated
// means the budget was short and the whole award rolls back.
func (r *pointRepository) CreateAdminAward(ctx context.Context, adminID uint64, entry *model.PointEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("users_id = ? AND teacher_points >= ?", adminID, entry.NumPoints).
			Update("teacher_points", gorm.Expr("teacher_points - ?", entry.NumPoints))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBudget
		}
		return tx.Create(entry).Error
	})
}

func (r *pointRepository) TeamTotals(ctx context.Context) ([]TeamTotal, error) {
	var totals []TeamTotal
	if err := r.db.WithContext(ctx).
		Model(&model.PointEntry{}).
		Select("color, SUM(num_points) AS points").
		Group("color").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *pointRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	if err := r.db.WithContext(ctx).
		Table("points p").
		Select("u.users_id AS user_id, u.name, p.color, SUM(p.num_points) AS points").
		Joins("JOIN users u ON u.users_id = p.users_id").
		Group("u.users_id, p.color").
		Order("points DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pointRepository) Recent(ctx context.Context, limit int) ([]RecentEntry, error) {
	var rows []RecentEntry
	if err := r.db.WithContext(ctx).
		Table("points p").
		Select("u.name, p.color, p.event_date, p.event_type").
		Joins("JOIN users u ON u.users_id = p.users_id").
		Order("p.event_date DESC, p.created_time DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExportRows returns the full ledger oldest-first. The recipient join is a
// LEFT JOIN because team-only awards carry no users_id.
func (r *pointRepository) ExportRows(ctx context.Context) ([]ExportRow, error) {
	var rows []ExportRow
	if err := r.db.WithContext(ctx).
		Table("points p").
		Select("u.users_id AS user_id, u.email, u.name, u.color AS user_color, "+
			"p.color AS point_color, p.num_points, p.event_date, p.event_type, "+
			"p.event_description, a.email AS added_by_email, p.created_time").
		Joins("JOIN users a ON a.users_id = p.added_by").
		Joins("LEFT JOIN users u ON u.users_id = p.users_id").
		Order("p.created_time ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pointRepository) SetDB(db *gorm.DB) {
	r.db = db
}
