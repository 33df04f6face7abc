package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "biblioteca_backend/internals/databases"
	model "biblioteca_backend/internals/features/library/catalog/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCategoryListSerializesRows(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.CategoryModel{CategoryName: "Psicología"}).Error)
	require.NoError(t, db.Create(&model.CategoryModel{CategoryName: model.DefaultCategoryName}).Error)

	app := fiber.New()
	ctl := NewCategoryController(db)
	app.Get("/categorias", ctl.List)

	resp, err := app.Test(httptest.NewRequest("GET", "/categorias", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			CategoryID   string `json:"category_id"`
			CategoryName string `json:"category_name"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.True(t, body.Success)
	require.Len(t, body.Data, 2)
	// Ordered by name.
	assert.Equal(t, model.DefaultCategoryName, body.Data[0].CategoryName)
	assert.Equal(t, "Psicología", body.Data[1].CategoryName)
	assert.NotEmpty(t, body.Data[0].CategoryID)
}
