package repository

import (
	"fmt"
	"testing"

	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SocialAccount{},
		&models.Event{},
		&models.EventSession{},
		&models.Registration{},
		&models.EventUnlock{},
		&models.EventPayout{},
	))

	return db
}
