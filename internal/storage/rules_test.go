package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// mustCategory creates a tenant-owned category for rule tests.
func mustCategory(t *testing.T, store *SQLiteStorage, tenantID, name string, direction model.CategoryDirection) *model.Category {
	t.Helper()
	cat, err := store.CreateCategory(context.Background(), tenantID, name, direction, "", "")
	require.NoError(t, err)
	return cat
}

func TestUpsertRule_CreatesAndOverwrites(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	catX := mustCategory(t, store, "local", "Domicilios", model.DirectionExpense)
	catY := mustCategory(t, store, "local", "Trabajo", model.DirectionExpense)

	// Keyword arrives unnormalized; the store normalizes before writing.
	first, err := store.UpsertRule(ctx, "local", "  Uber  ", catX.ID)
	require.NoError(t, err)
	assert.Equal(t, "uber", first.Keyword)
	assert.Equal(t, catX.ID, first.CategoryID)
	assert.Equal(t, "Domicilios", first.CategoryName)

	// Upserting the same keyword repoints instead of duplicating.
	second, err := store.UpsertRule(ctx, "local", "UBER", catY.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, catY.ID, second.CategoryID)

	rules, err := store.ListRules(ctx, "local")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, catY.ID, rules[0].CategoryID)
}

func TestUpsertRule_UnknownCategory(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.UpsertRule(context.Background(), "local", "uber", 99999)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpsertRule_EmptyKeyword(t *testing.T) {
	store := newTestStorage(t)
	cat := mustCategory(t, store, "local", "Domicilios", model.DirectionExpense)

	_, err := store.UpsertRule(context.Background(), "local", "   ", cat.ID)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpsertRule_SharedDefaultCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Seeded default categories are shared and usable by any tenant.
	def, err := store.GetCategoryByName(ctx, "local", "Transporte")
	require.NoError(t, err)
	require.True(t, def.IsDefault)

	rule, err := store.UpsertRule(ctx, "local", "didi", def.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transporte", rule.CategoryName)
	assert.Equal(t, model.DirectionExpense, rule.CategoryDirection)
}

func TestListRules_Ordering(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cat := mustCategory(t, store, "local", "Varios", model.DirectionExpense)

	for _, keyword := range []string{"uber", "uber eats", "cafe", "taxi"} {
		_, err := store.UpsertRule(ctx, "local", keyword, cat.ID)
		require.NoError(t, err)
	}

	rules, err := store.ListRules(ctx, "local")
	require.NoError(t, err)
	require.Len(t, rules, 4)

	// Longest keyword first; equal lengths alphabetical.
	keywords := make([]string, len(rules))
	for i, r := range rules {
		keywords[i] = r.Keyword
	}
	assert.Equal(t, []string{"uber eats", "cafe", "taxi", "uber"}, keywords)
}

func TestListRules_TenantIsolation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	catA := mustCategory(t, store, "alice", "Viajes", model.DirectionExpense)
	catB := mustCategory(t, store, "bob", "Viajes", model.DirectionExpense)

	_, err := store.UpsertRule(ctx, "alice", "avianca", catA.ID)
	require.NoError(t, err)
	_, err = store.UpsertRule(ctx, "bob", "latam", catB.ID)
	require.NoError(t, err)

	rulesA, err := store.ListRules(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rulesA, 1)
	assert.Equal(t, "avianca", rulesA[0].Keyword)

	rulesB, err := store.ListRules(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, rulesB, 1)
	assert.Equal(t, "latam", rulesB[0].Keyword)
}

func TestDeleteRule(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cat := mustCategory(t, store, "local", "Varios", model.DirectionExpense)

	rule, err := store.UpsertRule(ctx, "local", "uber", cat.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteRule(ctx, "local", rule.ID))

	rules, err := store.ListRules(ctx, "local")
	require.NoError(t, err)
	assert.Empty(t, rules)

	// Deleting again, or deleting another tenant's rule, is NotFound.
	assert.ErrorIs(t, store.DeleteRule(ctx, "local", rule.ID), common.ErrNotFound)
}

func TestDeleteRule_OtherTenant(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cat := mustCategory(t, store, "alice", "Viajes", model.DirectionExpense)

	rule, err := store.UpsertRule(ctx, "alice", "avianca", cat.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, store.DeleteRule(ctx, "bob", rule.ID), common.ErrNotFound)

	rules, err := store.ListRules(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestGetRule(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cat := mustCategory(t, store, "local", "Varios", model.DirectionExpense)

	created, err := store.UpsertRule(ctx, "local", "uber", cat.ID)
	require.NoError(t, err)

	got, err := store.GetRule(ctx, "local", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Keyword, got.Keyword)
	assert.Equal(t, "Varios", got.CategoryName)

	_, err = store.GetRule(ctx, "local", created.ID+1000)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsertRule_ConcurrentSameKeyword(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	cat := mustCategory(t, store, "local", "Varios", model.DirectionExpense)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpsertRule(ctx, "local", "uber", cat.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Ten racing writers, one surviving row.
	rules, err := store.ListRules(ctx, "local")
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestListRules_NilContext(t *testing.T) {
	store := newTestStorage(t)

	//nolint:staticcheck // exercising the nil-context guard
	_, err := store.ListRules(nil, "local")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
