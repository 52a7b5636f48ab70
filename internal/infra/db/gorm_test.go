package db

import (
	"path/filepath"
	"testing"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(config.Config{DBDriver: config.DriverMemory})
	assert.Error(t, err)
}

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	cfg := config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}

	gdb, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	b := model.Book{ID: 1, Title: "Dune", Price: 1600, Category: model.CategoryFiction, Stock: 3}
	require.NoError(t, gdb.Create(&b).Error)

	var got model.Book
	require.NoError(t, gdb.First(&got, 1).Error)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, model.CategoryFiction, got.Category)
}
