package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/juanfelareal/tranki/internal/engine"
	"github.com/juanfelareal/tranki/internal/extract"
	"github.com/juanfelareal/tranki/internal/model"
	"github.com/juanfelareal/tranki/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, extractor extract.Extractor) (*gin.Engine, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.New(store, engine.DefaultLexicon())
	return New(store, eng, extractor).Router(), store
}

// doRequest performs a JSON request with the default test tenant.
func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tenantHeader, "test-tenant")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestTenantHeaderRequired(t *testing.T) {
	router, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	categories := decode[[]categoryResponse](t, w)
	assert.Len(t, categories, 16)

	w = doRequest(router, http.MethodGet, "/api/categories?type=income", nil)
	incomes := decode[[]categoryResponse](t, w)
	assert.Len(t, incomes, 5)
	for _, cat := range incomes {
		assert.Equal(t, model.DirectionIncome, cat.Direction)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/categories", gin.H{
		"name": "Mascotas", "type": "expense", "icon": "🐕",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[categoryResponse](t, w)
	assert.Equal(t, "Mascotas", created.Name)
	assert.False(t, created.IsDefault)

	w = doRequest(router, http.MethodPut, "/api/categories/"+itoa(created.ID), gin.H{"name": "Perros"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[categoryResponse](t, w)
	assert.Equal(t, "Perros", updated.Name)
	assert.Equal(t, "🐕", updated.Icon)

	w = doRequest(router, http.MethodDelete, "/api/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDefaultCategoryRejected(t *testing.T) {
	router, store := newTestServer(t, nil)

	def, err := store.GetCategoryByName(context.Background(), "test-tenant", "Transporte")
	require.NoError(t, err)

	w := doRequest(router, http.MethodPut, "/api/categories/"+itoa(def.ID), gin.H{"name": "Mi Transporte"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleLifecycleAndMatching(t *testing.T) {
	router, store := newTestServer(t, nil)

	transport, err := store.GetCategoryByName(context.Background(), "test-tenant", "Transporte")
	require.NoError(t, err)

	// Before learning, the lexicon answers.
	w := doRequest(router, http.MethodPost, "/api/rules/match", gin.H{
		"text": "Pago Rappi restaurante", "type": "expense",
	})
	require.Equal(t, http.StatusOK, w.Code)
	before := decode[matchResponse](t, w)
	assert.Equal(t, "Alimentación", before.CategoryName)
	assert.Equal(t, model.ProvenanceDefault, before.Provenance)

	// The user corrects the suggestion; a rule is born.
	w = doRequest(router, http.MethodPost, "/api/rules", gin.H{
		"keyword": "  Rappi  ", "category_id": transport.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rule := decode[ruleResponse](t, w)
	assert.Equal(t, "rappi", rule.Keyword)
	assert.Equal(t, "Transporte", rule.CategoryName)

	// The learned rule now wins.
	w = doRequest(router, http.MethodPost, "/api/rules/match", gin.H{
		"text": "RAPPI PEDIDO 42", "type": "expense",
	})
	after := decode[matchResponse](t, w)
	assert.Equal(t, "Transporte", after.CategoryName)
	assert.Equal(t, model.ProvenanceLearned, after.Provenance)
	require.NotNil(t, after.CategoryID)
	assert.Equal(t, transport.ID, *after.CategoryID)

	w = doRequest(router, http.MethodGet, "/api/rules", nil)
	rules := decode[[]ruleResponse](t, w)
	require.Len(t, rules, 1)

	w = doRequest(router, http.MethodDelete, "/api/rules/"+itoa(rules[0].ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/rules/"+itoa(rules[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRuleUnknownCategory(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/rules", gin.H{
		"keyword": "uber", "category_id": 99999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkMatchKeepsOrder(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/rules/bulk-match", gin.H{
		"items": []gin.H{
			{"text": "Uber viaje", "type": "expense"},
			{"text": "desconocido xyz", "type": "income"},
			{"text": "Netflix mensual", "type": "expense"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	results := decode[[]matchResponse](t, w)
	require.Len(t, results, 3)
	assert.Equal(t, "Transporte", results[0].CategoryName)
	assert.Equal(t, engine.CatchAllIncome, results[1].CategoryName)
	assert.Equal(t, model.ProvenanceNone, results[1].Provenance)
	assert.Equal(t, "Suscripciones", results[2].CategoryName)
}

func TestTransactionsRoundTrip(t *testing.T) {
	router, store := newTestServer(t, nil)

	food, err := store.GetCategoryByName(context.Background(), "test-tenant", "Alimentación")
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/transactions", gin.H{
		"transactions": []gin.H{
			{"type": "expense", "amount": 35000, "description": "Rappi almuerzo", "date": "2026-08-01", "category_id": food.ID},
			{"type": "income", "amount": 4500000, "description": "Nómina", "date": "2026-08-15"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	transactions := decode[[]model.Transaction](t, w)
	assert.Len(t, transactions, 2)

	w = doRequest(router, http.MethodGet, "/api/transactions?type=expense", nil)
	expenses := decode[[]model.Transaction](t, w)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Rappi almuerzo", expenses[0].Description)

	w = doRequest(router, http.MethodGet, "/api/categories/stats/spending", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSaveTransactionsBadDate(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/transactions", gin.H{
		"transactions": []gin.H{
			{"type": "expense", "amount": 1000, "description": "Compra", "date": "01/08/2026"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
