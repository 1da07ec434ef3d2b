package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	conn   *gorm.DB
	users  repository.UserRepository
	points repository.PointRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&model.User{}, &model.PointEntry{}))
	return &testEnv{
		conn:   conn,
		users:  repository.NewUserRepository(conn),
		points: repository.NewPointRepository(conn),
	}
}

func (e *testEnv) createUser(t *testing.T, u *model.User) *model.User {
	t.Helper()
	require.NoError(t, e.conn.Create(u).Error)
	return u
}

func (e *testEnv) userByID(t *testing.T, id uint64) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, e.conn.First(&u, id).Error)
	return &u
}

func (e *testEnv) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.conn.Model(&model.PointEntry{}).Count(&count).Error)
	return count
}
