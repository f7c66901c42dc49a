package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/erp/posting/internal/application/event"
	"github.com/erp/posting/internal/application/ledger"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockDocumentCommands struct {
	mock.Mock
}

func (m *MockDocumentCommands) CreateDocument(ctx context.Context, scope shared.Scope, kind document.Kind, req posting.CreateDocumentRequest) (*posting.PostingResult, error) {
	args := m.Called(ctx, scope, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posting.PostingResult), args.Error(1)
}

func (m *MockDocumentCommands) CancelDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*document.Header, error) {
	args := m.Called(ctx, scope, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Header), args.Error(1)
}

type MockDocumentQueries struct {
	mock.Mock
}

func (m *MockDocumentQueries) GetDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*posting.DocumentResponse, error) {
	args := m.Called(ctx, scope, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posting.DocumentResponse), args.Error(1)
}

func (m *MockDocumentQueries) ListDocuments(ctx context.Context, scope shared.Scope, kind document.Kind, filter shared.Filter) (shared.Paginated[posting.DocumentResponse], error) {
	args := m.Called(ctx, scope, kind, filter)
	return args.Get(0).(shared.Paginated[posting.DocumentResponse]), args.Error(1)
}

type MockLedgerQueries struct {
	mock.Mock
}

func (m *MockLedgerQueries) ListProductLedger(ctx context.Context, scope shared.Scope, productID uuid.UUID, filter shared.Filter) (shared.Paginated[posting.LedgerEntryResponse], error) {
	args := m.Called(ctx, scope, productID, filter)
	return args.Get(0).(shared.Paginated[posting.LedgerEntryResponse]), args.Error(1)
}

type MockLedgerAuditor struct {
	mock.Mock
}

func (m *MockLedgerAuditor) Audit(ctx context.Context, scope shared.Scope) (*ledger.Report, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Report), args.Error(1)
}

type MockOutboxAdmin struct {
	mock.Mock
}

func (m *MockOutboxAdmin) ListDead(ctx context.Context, scope shared.Scope, filter event.DeadLetterFilter) (shared.Paginated[event.DeadLetter], error) {
	args := m.Called(ctx, scope, filter)
	return args.Get(0).(shared.Paginated[event.DeadLetter]), args.Error(1)
}

func (m *MockOutboxAdmin) Requeue(ctx context.Context, scope shared.Scope, id uuid.UUID) (*event.DeadLetter, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.DeadLetter), args.Error(1)
}

func (m *MockOutboxAdmin) Stats(ctx context.Context, scope shared.Scope) (*event.OutboxStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxStats), args.Error(1)
}

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// testServer mounts h under /api/v1 behind the scope middleware
func testServer(h registrar) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1", middleware.ScopeMiddleware())
	h.RegisterRoutes(api)
	return r
}

func testScope() shared.Scope {
	return shared.NewScope(uuid.New(), uuid.New())
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, scope *shared.Scope, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if scope != nil {
		req.Header.Set(middleware.TenantHeader, scope.TenantID.String())
		req.Header.Set(middleware.CompanyHeader, scope.CompanyID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
