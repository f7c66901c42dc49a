package integration

import (
	"net/http"
	"testing"

	eventapp "github.com/erp/posting/internal/application/event"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/event"
	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/erp/posting/internal/interfaces/http/handler"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/erp/posting/internal/interfaces/http/router"
	"github.com/erp/posting/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, e *env) *testutil.APIClient {
	t.Helper()

	middleware.SetupValidator()
	engine, err := router.NewEngine(router.EngineConfig{ServiceName: "posting-test", MaxBodySize: 1 << 20}, e.log)
	require.NoError(t, err)

	handler.NewHealthHandler("test", handler.HealthCheck{Name: "database", Check: e.db.Ping}).Register(engine)
	router.NewRouter(engine).
		Register(
			handler.NewDocumentHandler(e.coordinator, e.queries),
			handler.NewLedgerHandler(e.queries, e.audit),
			handler.NewOutboxHandler(eventapp.NewOutboxService(event.NewGormOutboxRepository(e.db.DB), e.log)),
		).
		Setup()

	return testutil.NewAPIClient(engine, e.fx.Scope)
}

func TestAPI_DocumentLifecycle(t *testing.T) {
	e := newEnv(t)
	api := newAPI(t, e)
	p := e.fx.AddProduct(t, testutil.ProductSpec{
		Code: "P-1", Price: testutil.Dec("12.50"), Cost: testutil.Dec("8"),
		StockQty: testutil.Dec("10"), AlertQty: testutil.DecPtr("5"),
	})

	resp := api.Get(t, "/health", http.StatusOK)
	assert.True(t, resp.Success)

	// sell 6: 10 -> 4, below the alert level
	resp = api.Post(t, "/api/v1/documents/sales", map[string]any{
		"location_id": e.fx.LocationID,
		"party_id":    e.fx.CustomerID,
		"tax_percent": "10",
		"lines": []map[string]any{
			{"product_id": p.ID, "quantity": "6"},
		},
		"payments": []map[string]any{
			{"amount": "50", "method": "CASH"},
		},
	}, http.StatusCreated)
	created := testutil.DataAs[posting.DocumentResponse](t, resp)
	assert.Equal(t, "SO-00001", created.ReferenceNo)
	assert.True(t, created.Amount.Equal(testutil.Dec("75")), created.Amount.String())
	assert.True(t, created.Total.Equal(testutil.Dec("82.5")), created.Total.String())
	assert.True(t, created.DueAmount.Equal(testutil.Dec("32.5")), created.DueAmount.String())
	require.Len(t, created.LedgerEntries, 1)
	require.Len(t, created.Notifications, 1)
	assert.Equal(t, "WARNING", created.Notifications[0].Severity)

	// overselling is rejected and leaves nothing behind
	resp = api.Post(t, "/api/v1/documents/sales", map[string]any{
		"location_id": e.fx.LocationID,
		"party_id":    e.fx.CustomerID,
		"lines": []map[string]any{
			{"product_id": p.ID, "quantity": "1"},
			{"product_id": p.ID, "quantity": "4"},
		},
	}, http.StatusUnprocessableEntity)
	testutil.AssertErrorCode(t, resp, shared.CodeInsufficientStock, shared.KindValidation)
	assert.Contains(t, resp.Error.Message, "line 2")
	assert.True(t, e.fx.StockQty(t, p.ID).Equal(testutil.Dec("4")))

	resp = api.Get(t, "/api/v1/documents/sales/"+created.ID.String(), http.StatusOK)
	fetched := testutil.DataAs[posting.DocumentResponse](t, resp)
	assert.Equal(t, created.ReferenceNo, fetched.ReferenceNo)
	require.Len(t, fetched.Payments, 1)

	resp = api.Get(t, "/api/v1/documents/sales?page=1&page_size=10", http.StatusOK)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	resp = api.Get(t, "/api/v1/products/"+p.ID.String()+"/ledger", http.StatusOK)
	entries := testutil.DataAs[[]posting.LedgerEntryResponse](t, resp)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].EntryNo)
	assert.True(t, entries[0].RemainingQty.Equal(testutil.Dec("4")))

	resp = api.Get(t, "/api/v1/ledger/audit", http.StatusOK)
	audit := testutil.DataAs[map[string]any](t, resp)
	assert.Equal(t, true, audit["consistent"])

	resp = api.Post(t, "/api/v1/documents/sales/"+created.ID.String()+"/cancel", nil, http.StatusOK)
	cancelled := testutil.DataAs[posting.DocumentResponse](t, resp)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	resp = api.Post(t, "/api/v1/documents/sales/"+created.ID.String()+"/cancel", nil, http.StatusUnprocessableEntity)
	testutil.AssertErrorCode(t, resp, shared.CodeInvalidStateTransition, shared.KindValidation)

	resp = api.Get(t, "/api/v1/outbox/stats", http.StatusOK)
	assert.True(t, resp.Success)
}

func TestAPI_ScopeIsolation(t *testing.T) {
	e := newEnv(t)
	api := newAPI(t, e)
	p := e.fx.AddProduct(t, testutil.ProductSpec{Code: "P-1", Price: testutil.Dec("1"), Cost: testutil.Dec("1")})

	resp := api.Post(t, "/api/v1/documents/adjustments", map[string]any{
		"location_id": e.fx.LocationID,
		"lines":       []map[string]any{{"product_id": p.ID, "quantity": "3"}},
	}, http.StatusCreated)
	created := testutil.DataAs[posting.DocumentResponse](t, resp)

	other := api.WithScope(testutil.RandomScope())
	resp = other.Get(t, "/api/v1/documents/adjustments/"+created.ID.String(), http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, shared.CodeNotFound, shared.KindNotFound)

	// another scope has no series configured
	resp = other.Post(t, "/api/v1/documents/adjustments", map[string]any{
		"location_id": e.fx.LocationID,
		"lines":       []map[string]any{{"product_id": p.ID, "quantity": "3"}},
	}, http.StatusInternalServerError)
	testutil.AssertErrorCode(t, resp, dto.ErrCodeSetup, shared.KindConfiguration)

	api.Unscoped().Get(t, "/api/v1/documents/adjustments", http.StatusBadRequest)
}
