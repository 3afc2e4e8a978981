package config_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/config"
)

type widget struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

func TestOpen(t *testing.T) {
	var buf bytes.Buffer
	out := config.Logger.Out
	config.Logger.SetOutput(&buf)
	t.Cleanup(func() { config.Logger.SetOutput(out) })

	db, err := config.Open(sqlite.Open("file:config_open?mode=memory&cache=shared"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))

	t.Run("RecordNotFoundIsQuiet", func(t *testing.T) {
		buf.Reset()
		var w widget
		err := db.First(&w, 42).Error
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		assert.NotContains(t, buf.String(), "record not found")
	})

	t.Run("DuplicateKeyTranslated", func(t *testing.T) {
		require.NoError(t, db.Create(&widget{Name: "gear"}).Error)
		err := db.Create(&widget{Name: "gear"}).Error
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	})

	t.Run("SQLErrorsReachLogger", func(t *testing.T) {
		buf.Reset()
		err := db.Exec("SELECT * FROM missing_table").Error
		assert.Error(t, err)
		assert.Contains(t, buf.String(), "missing_table")
	})
}
