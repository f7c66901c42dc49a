package posting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/partner"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/erp/posting/internal/application/posting"

// Config controls transaction timeout and conflict retry
type Config struct {
	TransactionTimeout   time.Duration
	MaxRetries           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns the defaults used when a field is left zero
func DefaultConfig() Config {
	return Config{
		TransactionTimeout:   30 * time.Second,
		MaxRetries:           2,
		RetryInitialInterval: 50 * time.Millisecond,
		RetryMaxInterval:     500 * time.Millisecond,
	}
}

// Metrics receives posting outcomes. Implementations must be safe for concurrent use.
type Metrics interface {
	DocumentPosted(ctx context.Context, kind string, lines int, elapsed time.Duration)
	DocumentAborted(ctx context.Context, kind, code string)
	AttemptRetried(ctx context.Context, kind string)
	LowStockAlert(ctx context.Context, severity string)
}

type noopMetrics struct{}

func (noopMetrics) DocumentPosted(context.Context, string, int, time.Duration) {}
func (noopMetrics) DocumentAborted(context.Context, string, string)            {}
func (noopMetrics) AttemptRetried(context.Context, string)                     {}
func (noopMetrics) LowStockAlert(context.Context, string)                      {}

// Coordinator creates Adjustment, Purchase and Sales documents as one atomic unit of work:
// number allocation, lines, ledger entries, stock mutation, guards and totals.
type Coordinator struct {
	txScope     TransactionScope
	sequencer   *numbering.Sequencer
	guard       *inventory.InventoryGuard
	creditGuard *partner.CreditLimitGuard
	notifier    *inventory.LowStockNotifier
	cfg         Config
	logger      *zap.Logger
	tracer      trace.Tracer
	metrics     Metrics
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithSequencer replaces the number sequencer, e.g. to inject a clock
func WithSequencer(s *numbering.Sequencer) Option {
	return func(c *Coordinator) { c.sequencer = s }
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracer sets the tracer
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// NewCoordinator creates a posting coordinator
func NewCoordinator(txScope TransactionScope, cfg Config, logger *zap.Logger, opts ...Option) *Coordinator {
	defaults := DefaultConfig()
	if cfg.TransactionTimeout <= 0 {
		cfg.TransactionTimeout = defaults.TransactionTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = defaults.RetryMaxInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		txScope:     txScope,
		sequencer:   numbering.NewSequencer(),
		guard:       inventory.NewInventoryGuard(),
		creditGuard: partner.NewCreditLimitGuard(),
		notifier:    inventory.NewLowStockNotifier(),
		cfg:         cfg,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
		metrics:     noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateDocument posts a document of the given kind. Either everything becomes visible or nothing does.
// Conflicts reported by the database are retried from scratch with backoff; every other error is returned
// as is.
func (c *Coordinator) CreateDocument(ctx context.Context, scope shared.Scope, kind document.Kind, req CreateDocumentRequest) (*PostingResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	desc, err := document.DescriptorFor(kind)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "document must have at least one line")
	}

	ctx, span := c.tracer.Start(ctx, "posting.CreateDocument", trace.WithAttributes(
		attribute.String("document.kind", kind.String()),
		attribute.Int("document.lines", len(req.Lines)),
		attribute.String("tenant.id", scope.TenantID.String()),
	))
	defer span.End()

	started := time.Now()
	attempts := 0
	var result *PostingResult

	operation := func() error {
		attempts++
		res, err := c.attempt(ctx, scope, desc, req)
		if err == nil {
			result = res
			return nil
		}
		if shared.IsRetryable(err) && ctx.Err() == nil {
			c.logger.Warn("Document posting conflict, retrying",
				zap.String("kind", kind.String()),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			c.metrics.AttemptRetried(ctx, kind.String())
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryInitialInterval
	policy.MaxInterval = c.cfg.RetryMaxInterval
	policy.MaxElapsedTime = 0

	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.MaxRetries)), ctx))
	if err != nil {
		var de *shared.DomainError
		code := "FATAL"
		if errors.As(err, &de) {
			code = de.Code
		}
		c.metrics.DocumentAborted(ctx, kind.String(), code)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		return nil, err
	}

	result.Attempts = attempts
	c.metrics.DocumentPosted(ctx, kind.String(), len(result.Header.Lines), time.Since(started))
	for _, n := range result.Notifications {
		c.metrics.LowStockAlert(ctx, string(n.Severity))
	}
	span.SetAttributes(attribute.String("document.reference_no", result.Header.ReferenceNo))

	c.logger.Info("Document posted",
		zap.String("kind", kind.String()),
		zap.String("reference_no", result.Header.ReferenceNo),
		zap.String("document_id", result.Header.ID.String()),
		zap.Int("lines", len(result.Header.Lines)),
		zap.Int("attempts", attempts),
		zap.Int("notifications", len(result.Notifications)),
	)
	return result, nil
}

// attempt runs one transaction under the configured timeout
func (c *Coordinator) attempt(parent context.Context, scope shared.Scope, desc document.Descriptor, req CreateDocumentRequest) (*PostingResult, error) {
	ctx, cancel := context.WithTimeout(parent, c.cfg.TransactionTimeout)
	defer cancel()

	run := document.NewPostingRun()
	var result *PostingResult
	err := c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		res, err := c.post(ctx, repos, run, scope, desc, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		stage := run.State()
		run.Abort()
		c.logger.Warn("Document posting aborted",
			zap.String("kind", desc.Kind.String()),
			zap.String("stage", string(stage)),
			zap.String("kind_of_error", string(shared.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	if err := run.Advance(document.PostingCommitted); err != nil {
		return nil, err
	}
	c.logger.Debug("Posting state", zap.String("state", string(document.PostingCommitted)))
	result.States = run.History()
	return result, nil
}

// resolvedLine is a validated line request bound to its loaded references
type resolvedLine struct {
	req        LineRequest
	product    *catalog.Product
	unitID     uuid.UUID
	locationID uuid.UUID
	entryType  inventory.EntryType
}

func (c *Coordinator) post(
	ctx context.Context,
	repos TransactionalRepositories,
	run *document.PostingRun,
	scope shared.Scope,
	desc document.Descriptor,
	req CreateDocumentRequest,
) (*PostingResult, error) {
	if err := c.advance(run, document.PostingValidating); err != nil {
		return nil, err
	}

	seriesCode := req.SeriesCode
	if seriesCode == "" {
		seriesCode = desc.DefaultSeries
	}
	referenceNo, err := c.sequencer.Next(ctx, repos.SeriesRepo(), scope, seriesCode)
	if err != nil {
		return nil, err
	}
	customer, err := c.validateHeader(ctx, repos, scope, desc, req)
	if err != nil {
		return nil, err
	}
	lines, err := c.validateLines(ctx, repos, scope, desc, req)
	if err != nil {
		return nil, err
	}

	fields := document.HeaderFields{
		Description:     req.Description,
		LocationID:      req.LocationID,
		PartyID:         req.PartyID,
		DiscountPercent: req.DiscountPercent,
		TaxPercent:      req.TaxPercent,
	}
	if req.DocumentDate != nil {
		fields.DocumentDate = *req.DocumentDate
	}
	header, err := document.NewHeader(scope, desc.Kind, referenceNo, seriesCode, fields)
	if err != nil {
		return nil, err
	}
	if len(req.Payments) > 0 && !desc.AcceptsPayments {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("%s documents do not accept payments", desc.Kind))
	}
	for i, p := range req.Payments {
		if _, err := header.AddPayment(p.Amount, p.Method, p.Reference); err != nil {
			return nil, prefixError(fmt.Sprintf("payment %d", i+1), err)
		}
	}
	if err := repos.DocumentRepo().CreateHeader(ctx, header); err != nil {
		return nil, err
	}

	if err := c.advance(run, document.PostingPosting); err != nil {
		return nil, err
	}
	ledger := inventory.NewStockLedger(repos.StockHistoryRepo(), repos.CounterRepo(), repos.ProductRepo())
	result := &PostingResult{Header: header}

	for i, rl := range lines {
		label := fmt.Sprintf("line %d", i+1)

		lineNo, err := repos.CounterRepo().Next(ctx, scope, numbering.LineCounterName(desc.Kind.String()))
		if err != nil {
			return nil, err
		}
		line, err := header.AddLine(document.LineFields{
			LineNo:          lineNo,
			Product:         rl.product.Snapshot(),
			UnitID:          rl.unitID,
			LocationID:      rl.locationID,
			EntryType:       rl.entryType,
			Quantity:        rl.req.Quantity,
			UnitPrice:       unitPrice(desc, rl),
			DiscountPercent: decimalOrZero(rl.req.DiscountPercent),
			TaxPercent:      decimalOrZero(rl.req.TaxPercent),
		})
		if err != nil {
			return nil, prefixError(label, err)
		}

		salesAmount := decimal.Zero
		if rl.entryType == inventory.EntryTypeSale {
			salesAmount = line.LineAmount
		}
		entry, err := ledger.Post(ctx, scope, rl.product, inventory.Movement{
			EntryType:      rl.entryType,
			Quantity:       rl.req.Quantity,
			DocumentType:   desc.DocumentType,
			DocumentID:     header.ID,
			DocumentNo:     referenceNo,
			DocumentLineNo: lineNo,
			LocationID:     rl.locationID,
			PostingDate:    header.DocumentDate,
			CostAmount:     rl.req.Quantity.Mul(rl.product.Cost).Round(document.MoneyPlaces),
			SalesAmount:    salesAmount,
		})
		if err != nil {
			return nil, prefixError(label, err)
		}
		line.LedgerEntryNo = entry.EntryNo
		if err := repos.DocumentRepo().CreateLine(ctx, scope, line); err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, entry)

		// an offsetting line only lowers the due amount
		if desc.ChecksCredit && !desc.Offsets(rl.entryType) {
			if err := c.creditGuard.Check(scope, customer, header.ProjectTotals().DueAmount.Amount()); err != nil {
				return nil, prefixError(label, err)
			}
		}
		if n := c.notifier.Evaluate(scope, rl.product, rl.entryType); n != nil {
			n.DocumentNo = referenceNo
			result.Notifications = append(result.Notifications, n)
		}
	}

	if err := c.advance(run, document.PostingTotaling); err != nil {
		return nil, err
	}
	if err := header.RecalculateTotals(); err != nil {
		return nil, err
	}
	if desc.ChecksCredit {
		if err := c.creditGuard.Check(scope, customer, header.DueAmount); err != nil {
			return nil, err
		}
	}
	if len(header.Payments) > 0 {
		if err := repos.DocumentRepo().CreatePayments(ctx, scope, header.Payments); err != nil {
			return nil, err
		}
	}
	if err := repos.DocumentRepo().UpdateTotals(ctx, header); err != nil {
		return nil, err
	}

	events := []shared.DomainEvent{document.NewDocumentPostedEvent(header)}
	for _, n := range result.Notifications {
		events = append(events, inventory.NewLowStockAlertRaisedEvent(n))
	}
	if err := repos.Events().Record(ctx, events...); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Coordinator) advance(run *document.PostingRun, next document.PostingState) error {
	if err := run.Advance(next); err != nil {
		return err
	}
	c.logger.Debug("Posting state", zap.String("state", string(next)))
	return nil
}

// validateHeader checks the header location and counterparty, returning the customer for sales documents
func (c *Coordinator) validateHeader(
	ctx context.Context,
	repos TransactionalRepositories,
	scope shared.Scope,
	desc document.Descriptor,
	req CreateDocumentRequest,
) (*partner.Customer, error) {
	if _, err := repos.LocationRepo().FindByID(ctx, scope, req.LocationID); err != nil {
		return nil, err
	}

	switch desc.Party {
	case document.PartyNone:
		if req.PartyID != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("%s documents do not take a counterparty", desc.Kind))
		}
	case document.PartySupplier:
		if req.PartyID == nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "supplier is required")
		}
		if _, err := repos.SupplierRepo().FindByID(ctx, scope, *req.PartyID); err != nil {
			return nil, err
		}
	case document.PartyCustomer:
		if req.PartyID == nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "customer is required")
		}
		customer, err := repos.CustomerRepo().FindByID(ctx, scope, *req.PartyID)
		if err != nil {
			return nil, err
		}
		return customer, nil
	}
	return nil, nil
}

// validateLines resolves every reference, locks the products in id order and runs the
// inventory guard against the stock projected through the earlier lines of this document
func (c *Coordinator) validateLines(
	ctx context.Context,
	repos TransactionalRepositories,
	scope shared.Scope,
	desc document.Descriptor,
	req CreateDocumentRequest,
) ([]resolvedLine, error) {
	ids := make([]uuid.UUID, 0, len(req.Lines))
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, l := range req.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	locked, err := repos.ProductRepo().FindByIDsForUpdate(ctx, scope, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.Product, len(locked))
	for _, p := range locked {
		products[p.ID] = p
	}

	units := map[uuid.UUID]bool{}
	locations := map[uuid.UUID]bool{req.LocationID: true}
	projected := make(map[uuid.UUID]decimal.Decimal, len(locked))
	for _, p := range locked {
		projected[p.ID] = p.StockQty
	}

	resolved := make([]resolvedLine, len(req.Lines))
	for i, l := range req.Lines {
		label := fmt.Sprintf("line %d", i+1)

		product, ok := products[l.ProductID]
		if !ok {
			return nil, prefixError(label, shared.NewNotFoundError("product", l.ProductID))
		}

		unitID := product.UnitID
		if l.UnitID != nil {
			unitID = *l.UnitID
		}
		if !units[unitID] {
			if _, err := repos.UnitRepo().FindByID(ctx, scope, unitID); err != nil {
				return nil, prefixError(label, err)
			}
			units[unitID] = true
		}

		locationID := req.LocationID
		if l.LocationID != nil {
			locationID = *l.LocationID
		}
		if !locations[locationID] {
			if _, err := repos.LocationRepo().FindByID(ctx, scope, locationID); err != nil {
				return nil, prefixError(label, err)
			}
			locations[locationID] = true
		}

		entryType, err := desc.ResolveEntryType(inventory.EntryType(l.EntryType))
		if err != nil {
			return nil, prefixError(label, err)
		}

		view := *product
		view.StockQty = projected[product.ID]
		if err := c.guard.Check(&view, l.Quantity, entryType); err != nil {
			return nil, prefixError(label, err)
		}
		projected[product.ID] = projected[product.ID].Add(entryType.SignedQuantity(l.Quantity))

		resolved[i] = resolvedLine{
			req:        l,
			product:    product,
			unitID:     unitID,
			locationID: locationID,
			entryType:  entryType,
		}
	}
	return resolved, nil
}

func unitPrice(desc document.Descriptor, rl resolvedLine) decimal.Decimal {
	if rl.req.UnitPrice != nil {
		return *rl.req.UnitPrice
	}
	if desc.PriceSource == document.PriceFromSellingPrice {
		return rl.product.Price
	}
	return rl.product.Cost
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// prefixError names the failing part of the request on domain errors and leaves other errors untouched
func prefixError(label string, err error) error {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return err
	}
	return shared.WrapDomainError(de.Code, fmt.Sprintf("%s: %s", label, de.Message), err)
}
