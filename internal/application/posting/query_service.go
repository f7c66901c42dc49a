package posting

import (
	"context"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// QueryService serves read-only views of posted documents and the stock ledger
type QueryService struct {
	documents document.Repository
	entries   inventory.StockHistoryRepository
	products  catalog.ProductRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(documents document.Repository, entries inventory.StockHistoryRepository, products catalog.ProductRepository) *QueryService {
	return &QueryService{documents: documents, entries: entries, products: products}
}

// GetDocument returns a document with its lines, payments and ledger entries
func (s *QueryService) GetDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*DocumentResponse, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	header, err := s.documents.FindByID(ctx, scope, kind, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.FindByDocument(ctx, scope, header.ID)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(header)
	resp.LedgerEntries = ToLedgerEntryResponses(entries)
	return &resp, nil
}

// ListDocuments returns document headers of a kind, newest first
func (s *QueryService) ListDocuments(ctx context.Context, scope shared.Scope, kind document.Kind, filter shared.Filter) (shared.Paginated[DocumentResponse], error) {
	if err := scope.Validate(); err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}
	filter = normalizeFilter(filter)
	headers, total, err := s.documents.List(ctx, scope, kind, filter)
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}
	items := make([]DocumentResponse, len(headers))
	for i, h := range headers {
		items[i] = ToDocumentResponse(h)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ListProductLedger returns the ledger entries of a product in entry number order
func (s *QueryService) ListProductLedger(ctx context.Context, scope shared.Scope, productID uuid.UUID, filter shared.Filter) (shared.Paginated[LedgerEntryResponse], error) {
	if err := scope.Validate(); err != nil {
		return shared.Paginated[LedgerEntryResponse]{}, err
	}
	if _, err := s.products.FindByID(ctx, scope, productID); err != nil {
		return shared.Paginated[LedgerEntryResponse]{}, err
	}
	filter = normalizeFilter(filter)
	entries, total, err := s.entries.FindByProduct(ctx, scope, productID, filter)
	if err != nil {
		return shared.Paginated[LedgerEntryResponse]{}, err
	}
	return shared.NewPaginated(ToLedgerEntryResponses(entries), total, filter.Page, filter.PageSize), nil
}

func normalizeFilter(f shared.Filter) shared.Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	return f
}
