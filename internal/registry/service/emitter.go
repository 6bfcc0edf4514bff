package service

import (
	"context"
	"log/slog"

	"easel/internal/audit"
	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
	"easel/pkg/requestcontext"
)

// eventBuffer stages audit events while a mutation runs inside its
// transactional boundary. Nothing reaches the sink until the mutation
// commits, so a rolled-back operation emits nothing and a committed one
// emits exactly one event per logical mutation, in mutation order.
type eventBuffer struct {
	events []audit.Event
}

func (b *eventBuffer) stageAttributeCreated(payload models.AttributeCreated) {
	b.events = append(b.events, audit.Event{
		Action:      audit.ActionAttributeCreated,
		AttributeID: payload.AttributeID,
		Name:        payload.Name,
		Script:      payload.Script,
	})
}

func (b *eventBuffer) stageTraitAdded(payload models.TraitAdded) {
	b.events = append(b.events, audit.Event{
		Action:      audit.ActionTraitAdded,
		AttributeID: payload.AttributeID,
		TraitID:     payload.TraitID,
		Name:        payload.Name,
		Rarity:      string(payload.Rarity),
	})
}

func (b *eventBuffer) stageCIDUpdated(payload models.CIDUpdated) {
	b.events = append(b.events, audit.Event{
		Action:      audit.ActionCIDUpdated,
		AttributeID: payload.AttributeID,
		CID:         payload.CID,
	})
}

// auditEmitter flushes staged events to the configured sink after commit,
// attaching the caller identity and correlation ID from the request context.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

// flush delivers staged events in order. The mutation is already committed
// when flush runs; a sink failure is surfaced to the caller but does not and
// cannot undo registry state. Consumers reconcile via the read API.
func (e *auditEmitter) flush(ctx context.Context, buf *eventBuffer) error {
	if e.publisher == nil {
		return nil
	}
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)
	requestID := requestcontext.RequestID(ctx)
	for _, event := range buf.events {
		event.Timestamp = now
		event.ActorID = actor
		event.RequestID = requestID
		if err := e.publisher.Emit(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "audit emit failed",
				"action", event.Action,
				"attribute_id", event.AttributeID,
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeInternal, "mutation committed but audit emission failed")
		}
	}
	return nil
}
