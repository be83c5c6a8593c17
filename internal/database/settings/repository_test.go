package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opdserve/opdserve/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting(1, "theme", "dark")
	require.NoError(t, err)

	value, err := repo.GetSetting(1, "theme", "")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Set initial value
	err := repo.SetSetting(1, "theme", "light")
	require.NoError(t, err)

	// Update value
	err = repo.SetSetting(1, "theme", "dark")
	require.NoError(t, err)

	value, err := repo.GetSetting(1, "theme", "")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestRepository_GetSetting_Fallback(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	value, err := repo.GetSetting(1, "nonexistent", "fallback")
	require.NoError(t, err)

	assert.Equal(t, "fallback", value)
}

func TestRepository_Settings_PerUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting(1, "theme", "dark")
	require.NoError(t, err)
	err = repo.SetSetting(2, "theme", "light")
	require.NoError(t, err)

	value, err := repo.GetSetting(1, "theme", "")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)

	value, err = repo.GetSetting(2, "theme", "")
	require.NoError(t, err)
	assert.Equal(t, "light", value)
}

func TestRepository_GetLibrary_Default(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	library, err := repo.GetLibrary(1)
	require.NoError(t, err)

	assert.Equal(t, DefaultLibrary, library)
}

func TestRepository_SetLibrary(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetLibrary(1, "Calibre")
	require.NoError(t, err)

	library, err := repo.GetLibrary(1)
	require.NoError(t, err)
	assert.Equal(t, "Calibre", library)
}
