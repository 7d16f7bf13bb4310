package services

import (
	"context"

	"github.com/taskforge/backend/internal/infrastructure/audit"
	"github.com/taskforge/backend/usecase"
)

// AuditBridge adapts the Bolt audit store to the usecase.AuditTrail port.
type AuditBridge struct {
	store *audit.Store
}

func NewAuditBridge(store *audit.Store) *AuditBridge {
	return &AuditBridge{store: store}
}

func (b *AuditBridge) RecordTaskMutation(ctx context.Context, m usecase.TaskMutation) error {
	if b == nil || b.store == nil {
		return nil
	}
	return b.store.Append(audit.Entry{
		TaskID:     m.TaskID,
		ActorID:    m.ActorID,
		Operation:  m.Operation,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
	})
}
