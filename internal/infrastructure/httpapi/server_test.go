package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucky83149028/CarShop/internal/application/handlers"
	"github.com/lucky83149028/CarShop/internal/domain/mocks"
	"github.com/lucky83149028/CarShop/internal/domain/services"
)

const (
	admin = "0xadmin"
	buyer = "0xbuyer"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger, err := services.NewLedger(admin, mocks.NewNotifier(), nil)
	require.NoError(t, err)
	server := NewServer(
		handlers.NewLedgerHandler(ledger, mocks.NewLedgerStore()),
		handlers.NewQueryHandler(ledger),
	)
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestMintAndGetCar(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["id"])

	w = doJSON(t, router, http.MethodGet, "/cars/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, admin, got["owner"])
	assert.Equal(t, float64(100), got["price"])
}

func TestMint_NonAdminForbidden(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/cars", buyer, gin.H{"price": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSellFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 100})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/cars/0/sell", admin, gin.H{"to": buyer})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/owners/"+buyer+"/balance", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["balance"])
}

func TestRename_Statuses(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 100})
	doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 200})

	w := doJSON(t, router, http.MethodPut, "/cars/0/name", admin, gin.H{"name": "Tesla Model 3"})
	require.Equal(t, http.StatusOK, w.Code)

	// Folded collision on a different car
	w = doJSON(t, router, http.MethodPut, "/cars/1/name", admin, gin.H{"name": "tesla model 3"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Invalid name
	w = doJSON(t, router, http.MethodPut, "/cars/1/name", admin, gin.H{"name": " bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unminted id
	w = doJSON(t, router, http.MethodPut, "/cars/9/name", admin, gin.H{"name": "Fine"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Non-administrator
	w = doJSON(t, router, http.MethodPut, "/cars/1/name", buyer, gin.H{"name": "Fine"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/names/TESLA%20MODEL%203/reserved", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["reserved"])
}

func TestTransferAndApprove(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 100})

	// Unauthorized caller cannot move the car
	w := doJSON(t, router, http.MethodPost, "/cars/0/transfers", buyer, gin.H{"from": admin, "to": buyer})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner approves a delegate, who then transfers
	w = doJSON(t, router, http.MethodPost, "/cars/0/approve", admin, gin.H{"delegate": "0xdealer"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/cars/0/transfers", "0xdealer", gin.H{"from": admin, "to": buyer})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cars/0", "", nil)
	assert.Equal(t, buyer, decode(t, w)["owner"])
}

func TestOperators(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/operators", buyer, gin.H{"operator": buyer, "approved": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/operators", buyer, gin.H{"operator": "0xdealer", "approved": true})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListAndSupply(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 100})
	doJSON(t, router, http.MethodPost, "/cars", admin, gin.H{"price": 200})

	w := doJSON(t, router, http.MethodGet, "/supply", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["total_supply"])

	w = doJSON(t, router, http.MethodGet, "/cars", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list handlers.CarListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Cars, 2)
	assert.Equal(t, uint64(0), list.Cars[0].ID)
	assert.Equal(t, uint64(1), list.Cars[1].ID)
}

func TestInvalidCarID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/cars/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCar_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/cars/0", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
