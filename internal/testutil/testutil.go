package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-waste-scheduler/internal/db"
	"hotel-waste-scheduler/internal/model"
)

// SetupSQLite opens a private in-memory database with the full schema. A single
// connection serialises concurrent callers the way row locks would on postgres.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Logf("failed to close sqlite: %v", err)
		}
	})

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// SeedHotels inserts hotels with the given names and returns them in order.
func SeedHotels(t *testing.T, gormDB *gorm.DB, names ...string) []model.Hotel {
	t.Helper()

	hotels := make([]model.Hotel, 0, len(names))
	for i, name := range names {
		h := model.Hotel{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     fmt.Sprintf("hotel%d@example.com", i+1),
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, gormDB.Create(&h).Error)
		hotels = append(hotels, h)
	}
	return hotels
}
