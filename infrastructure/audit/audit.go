package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"leafdesk/infrastructure/sqlite"
	"leafdesk/models"
)

const (
	ActionSupplierCreate = "supplier.create"
	ActionSupplierUpdate = "supplier.update"
	ActionFactoryUpdate  = "factory.update"
)

// Service records writes the dashboard forwarded to the remote API.
type Service struct {
	db *sqlite.DB
}

func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Write inserts an audit row inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, actor models.User, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		UserID:     actor.UserID.String(),
		UserName:   actor.UserName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// Record writes an audit row in its own transaction.
func (s *Service) Record(ctx context.Context, actor models.User, action, entityType, entityID string, before, after any) error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, actor, action, entityType, entityID, before, after)
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// List returns the newest audit rows for an entity, newest first.
func (s *Service) List(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&rows).Where("entity_type = ?", entityType)
		if entityID != "" {
			q = q.Where("entity_id = ?", entityID)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Order("id DESC").Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return rows, nil
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
