package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripspend/tripspend/pkg/expense"
)

func setupHandlerTest(t *testing.T, records ...expense.Record) (*Handler, *expense.StoreStub, context.Context) {
	store := expense.NewStoreStub(records...)
	t.Cleanup(store.Reset)
	handler := NewHandler(NewService(expense.NewService(nil)), NewCsvSummaryRenderer())
	return handler, store, expense.WithStore(context.Background(), store)
}

func TestHandler_GetSummary(t *testing.T) {
	t.Run("should return summary as json", func(t *testing.T) {
		// given
		handler, _, ctx := setupHandlerTest(t, fuel, hotel, toll)
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		// when
		handler.GetSummary(w, req)

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		var dto SummaryDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, 3, dto.Count)
		assert.Equal(t, 462.7, dto.Total)
		assert.Equal(t, "2024-01-02", dto.LastDay)
		assert.Equal(t, 12.2, dto.LastDayTotal)
		assert.Equal(t, "2024-01-01", dto.PreviousDay)
		assert.Equal(t, 450.5, dto.PreviousDayTotal)
		require.Len(t, dto.ByCategory, 3)
		assert.Equal(t, "Hotel", dto.ByCategory[0].Category)
	})

	t.Run("should return csv when requested", func(t *testing.T) {
		handler, _, ctx := setupHandlerTest(t, fuel)
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(ctx)
		req.Header.Set("Accept", "text/csv")
		w := httptest.NewRecorder()

		handler.GetSummary(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "Fuel,100.00,100.00\n")
	})

	t.Run("should answer 401 without store", func(t *testing.T) {
		handler, _, _ := setupHandlerTest(t)
		w := httptest.NewRecorder()

		handler.GetSummary(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should answer 502 when store fails", func(t *testing.T) {
		handler, store, ctx := setupHandlerTest(t)
		store.SetFetchError(expense.ErrStoreTestError)
		w := httptest.NewRecorder()

		handler.GetSummary(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(ctx))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
