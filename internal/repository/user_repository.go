package repository

import (
	"context"
	"strings"

	"github.com/stmarysschool/points-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetOrCreate(ctx context.Context, email, name string) (*model.User, error)
	AssignColor(ctx context.Context, id uint64, color model.TeamColor) (bool, error)
	FirstAdmin(ctx context.Context) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	GrantTeacherPoints(ctx context.Context, id uint64, points int) (bool, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreate returns the user for email, inserting a fresh record (no color,
// non-admin, zero budget) when none exists. Concurrent first logins race on
// the insert; the unique index on email rejects the loser, which then
// re-fetches the winner's row.
func (r *userRepository) GetOrCreate(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.ToLower(email)
	var u model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Attrs(model.User{Name: name, Email: email}).
		FirstOrCreate(&u).Error
	if err == nil {
		return &u, nil
	}
	var existing model.User
	if ferr := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&existing).Error; ferr == nil {
		return &existing, nil
	}
	return nil, err
}

// AssignColor sets the team color only when none is stored yet. Returns
// whether this call performed the assignment.
func (r *userRepository) AssignColor(ctx context.Context, id uint64, color model.TeamColor) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("users_id = ? AND color IS NULL", id).
		Update("color", color)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) FirstAdmin(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("admin = ?", true).
		Order("users_id ASC").
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

// GrantTeacherPoints seeds a starting budget for a user who holds none yet.
// A user with a live budget is left alone so reloads never reset balances.
func (r *userRepository) GrantTeacherPoints(ctx context.Context, id uint64, points int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("users_id = ? AND teacher_points = 0", id).
		Update("teacher_points", points)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}
