package storage

import (
	"context"
	"testing"
	"time"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories_SeededDefaults(t *testing.T) {
	store := newTestStorage(t)

	categories, err := store.GetCategories(context.Background(), "local")
	require.NoError(t, err)
	require.Len(t, categories, 16)

	byName := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		assert.True(t, cat.IsDefault)
		assert.Empty(t, cat.TenantID)
		byName[cat.Name] = cat
	}

	assert.Equal(t, model.DirectionIncome, byName["Salario"].Direction)
	assert.Equal(t, model.DirectionExpense, byName["Alimentación"].Direction)
	assert.Equal(t, "🚗", byName["Transporte"].Icon)
	assert.Contains(t, byName, "Otros Ingresos")
	assert.Contains(t, byName, "Otros Gastos")
}

func TestCreateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "local", "Mascotas", model.DirectionExpense, "🐕", "#F97316")
	require.NoError(t, err)
	assert.Equal(t, "Mascotas", cat.Name)
	assert.Equal(t, "local", cat.TenantID)
	assert.False(t, cat.IsDefault)

	// Defaults applied when presentation fields are omitted.
	plain, err := store.CreateCategory(ctx, "local", "Varios", model.DirectionExpense, "", "")
	require.NoError(t, err)
	assert.Equal(t, "📦", plain.Icon)
	assert.Equal(t, "#6366F1", plain.Color)

	categories, err := store.GetCategories(ctx, "local")
	require.NoError(t, err)
	assert.Len(t, categories, 18)

	// Another tenant does not see them.
	other, err := store.GetCategories(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, other, 16)
}

func TestCreateCategory_InvalidDirection(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.CreateCategory(context.Background(), "local", "Mascotas", "sideways", "", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestGetCategoryByName_OwnedShadowsDefault(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	own, err := store.CreateCategory(ctx, "local", "Transporte", model.DirectionExpense, "🚲", "#000000")
	require.NoError(t, err)

	got, err := store.GetCategoryByName(ctx, "local", "Transporte")
	require.NoError(t, err)
	assert.Equal(t, own.ID, got.ID)
	assert.False(t, got.IsDefault)

	// For everyone else the shared default still resolves.
	def, err := store.GetCategoryByName(ctx, "other", "Transporte")
	require.NoError(t, err)
	assert.True(t, def.IsDefault)
}

func TestGetCategoryByName_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetCategoryByName(context.Background(), "local", "No Existe")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "local", "Mascotas", model.DirectionExpense, "🐕", "#F97316")
	require.NoError(t, err)

	require.NoError(t, store.UpdateCategory(ctx, "local", cat.ID, "Perros", "", "#111111"))

	got, err := store.GetCategoryByID(ctx, "local", cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Perros", got.Name)
	assert.Equal(t, "🐕", got.Icon)
	assert.Equal(t, "#111111", got.Color)
}

func TestUpdateCategory_DefaultsNotEditable(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	def, err := store.GetCategoryByName(ctx, "local", "Transporte")
	require.NoError(t, err)

	err = store.UpdateCategory(ctx, "local", def.ID, "Mi Transporte", "", "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "local", "Mascotas", model.DirectionExpense, "", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteCategory(ctx, "local", cat.ID))

	_, err = store.GetCategoryByID(ctx, "local", cat.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteCategory_WithTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "local", "Mascotas", model.DirectionExpense, "", "")
	require.NoError(t, err)

	catID := cat.ID
	err = store.SaveTransactions(ctx, []model.Transaction{{
		TenantID:    "local",
		Description: "Veterinaria",
		Direction:   model.DirectionExpense,
		Amount:      decimal.NewFromInt(80000),
		Date:        time.Now(),
		CategoryID:  &catID,
	}})
	require.NoError(t, err)

	err = store.DeleteCategory(ctx, "local", cat.ID)
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
}
