package service

import (
	"context"

	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"
)

// auditTrail appends circulation events after a change has committed.
// A failed append is logged and never fails the change itself.
type auditTrail struct {
	repo repository.EventRepo
	log  *logger.Logger
}

func newAuditTrail(repo repository.EventRepo, log *logger.Logger) *auditTrail {
	if log == nil {
		log = logger.Nop()
	}
	return &auditTrail{repo: repo, log: log}
}

func (a *auditTrail) record(ctx context.Context, typ, actorID, msg string, meta map[string]any) {
	if a == nil || a.repo == nil {
		return
	}
	err := a.repo.Append(ctx, models.CirculationEvent{
		Type:        typ,
		Description: msg,
		ActorID:     actorID,
		Metadata:    meta,
	})
	if err != nil {
		a.log.Warnw("circulation_event_append_failed", "type", typ, "actor_id", actorID, "error", err)
	}
}
