package exports

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"leafdesk/infrastructure/sqlite"
	"leafdesk/models"
)

// RecordExportRun stores a finished download.
func RecordExportRun(ctx context.Context, db *sqlite.DB, run *models.ExportRun) error {
	if err := db.Insert(ctx, run); err != nil {
		return fmt.Errorf("record export run: %w", err)
	}
	return nil
}

// ListExportRuns returns the newest runs of a factory.
func ListExportRuns(ctx context.Context, db *sqlite.DB, factoryID string, limit int) ([]models.ExportRun, error) {
	runs := make([]models.ExportRun, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&runs).Where("factory_id = ?", factoryID).OrderExpr("created_at DESC, id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list export runs: %w", err)
	}
	return runs, nil
}

func typeLabel(exportType string) string {
	switch exportType {
	case TypeGreenLeafXLSX:
		return "Green leaf (xlsx)"
	}
	return exportType
}
