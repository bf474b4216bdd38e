package audit_test

import (
	"testing"

	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestWrite_PersistsSnapshots(t *testing.T) {
	db := newTestDB(t)

	err := audit.Write(db, audit.Entry{
		EntityType:  "sale",
		EntityID:    42,
		Action:      models.AuditActionCreate,
		Description: "Satış oluşturuldu",
		After:       map[string]any{"total": 55.0},
	})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)

	assert.Equal(t, "sale", log.EntityType)
	assert.Equal(t, uint(42), log.EntityID)
	assert.Equal(t, models.AuditActionCreate, log.Action)
	assert.Equal(t, "null", log.BeforeData)
	assert.JSONEq(t, `{"total": 55}`, log.AfterData)
}

func TestWrite_NilSnapshotsDefaultToNull(t *testing.T) {
	db := newTestDB(t)

	err := audit.Write(db, audit.Entry{
		EntityType: "purchase",
		EntityID:   7,
		Action:     models.AuditActionCancel,
	})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)
	assert.Equal(t, "null", log.BeforeData)
	assert.Equal(t, "null", log.AfterData)
}
