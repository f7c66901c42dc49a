package posting

import (
	"context"

	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CancelDocument moves a posted document to CANCELLED. Lines and ledger entries stay as they are.
func (c *Coordinator) CancelDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*document.Header, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if _, err := document.DescriptorFor(kind); err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "posting.CancelDocument", trace.WithAttributes(
		attribute.String("document.kind", kind.String()),
		attribute.String("document.id", id.String()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TransactionTimeout)
	defer cancel()

	var header *document.Header
	err := c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		h, err := repos.DocumentRepo().FindByID(ctx, scope, kind, id)
		if err != nil {
			return err
		}
		if err := h.Cancel(); err != nil {
			return err
		}
		if err := repos.DocumentRepo().UpdateStatus(ctx, h); err != nil {
			return err
		}
		if err := repos.Events().Record(ctx, h.PendingEvents()...); err != nil {
			return err
		}
		header = h
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.logger.Info("Document cancelled",
		zap.String("kind", kind.String()),
		zap.String("reference_no", header.ReferenceNo),
		zap.String("document_id", header.ID.String()),
	)
	return header, nil
}
