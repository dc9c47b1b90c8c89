package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"leafdesk/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "migrations")
	if err := ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, factory_id, export_type, from_date, to_date, row_count, file_name) VALUES (?, ?, ?, ?, ?, ?, ?)`, "rollback-user", "3", "greenleaf.xlsx", "2024-01-01", "2024-01-31", 4, "GreenLeaf_Report.xlsx"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got: %v", err)
	}

	var count int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM export_runs WHERE user_id = ?`, "rollback-user").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove insert, count=%d", count)
	}
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, factory_id, export_type, from_date, to_date, row_count, file_name) VALUES (?, ?, ?, ?, ?, ?, ?)`, "commit-user", "3", "greenleaf.xlsx", "2024-01-01", "2024-01-31", 4, "GreenLeaf_Report.xlsx")
		return err
	})
	if err != nil {
		t.Fatalf("write tx failed: %v", err)
	}

	var count int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM export_runs WHERE user_id = ?`, "commit-user").Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed insert, count=%d", count)
	}
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, factory_id, export_type, from_date, to_date, row_count, file_name) VALUES (?, ?, ?, ?, ?, ?, ?)`, "read-only-user", "3", "greenleaf.xlsx", "2024-01-01", "2024-01-31", 4, "GreenLeaf_Report.xlsx")
		return err
	})
	var count int
	if err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM export_runs WHERE user_id = ?`, "read-only-user").Scan(ctx, &count)
	}); err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	if err == nil && count > 0 {
		t.Fatalf("expected write in read tx to be blocked; write succeeded")
	}
}

func TestInsertWritesModel(t *testing.T) {
	db := openTestDB(t)

	run := &models.ExportRun{
		UserID:     "7",
		FactoryID:  "3",
		ExportType: "greenleaf.xlsx",
		FromDate:   "2024-01-05",
		ToDate:     "2024-01-05",
		RowCount:   2,
		FileName:   "GreenLeaf_Report.xlsx",
	}
	if err := db.Insert(context.Background(), run); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if run.ID == 0 {
		t.Fatalf("expected autoincrement id to be set")
	}
}

func TestNilDBReportsNotInitialized(t *testing.T) {
	var db *DB
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error { return nil })
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
