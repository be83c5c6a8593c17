package users

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
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser("alice", "hash")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestRepository_CreateUser_Duplicate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateUser("alice", "hash")
	require.NoError(t, err)

	_, err = repo.CreateUser("alice", "other-hash")
	assert.Error(t, err)
}

func TestRepository_GetUserByUsername(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateUser("alice", "hash")
	require.NoError(t, err)

	user, err := repo.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestRepository_GetUserByUsername_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByUsername("nonexistent")

	assert.Error(t, err)
}

func TestRepository_HasUsers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	hasUsers, err := repo.HasUsers()
	require.NoError(t, err)
	assert.False(t, hasUsers)

	_, err = repo.CreateUser("alice", "hash")
	require.NoError(t, err)

	hasUsers, err = repo.HasUsers()
	require.NoError(t, err)
	assert.True(t, hasUsers)
}
