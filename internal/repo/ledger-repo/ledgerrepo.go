package ledgerrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

// balanceRowCap bounds the number of entries summed per balance read. Scopes
// are not expected to come anywhere near it; it guards a runaway query.
const balanceRowCap = 50000

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// LockScope serializes ledger writers on one scope until the surrounding
// transaction ends. hashtextextended folds (scope_type, scope_id) into the
// bigint key space advisory locks expect.
func (r *Repository) LockScope(ctx context.Context, scope domain.Scope) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`
	_, err := r.db.Exec(ctx, query, scope.Type, scope.ID.String())
	if err != nil {
		zap.L().Error("failed to lock ledger scope", zap.Error(err))
	}
	return err
}

func (r *Repository) GetBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(change), 0)
        FROM (
            SELECT change
            FROM ledger_entries
            WHERE scope_type = $1 AND scope_id = $2
            ORDER BY created_at DESC
            LIMIT $3
        ) recent
    `
	row := r.db.QueryRow(ctx, query, scope.Type, scope.ID, balanceRowCap)
	var balance decimal.Decimal
	if err := row.Scan(&balance); err != nil {
		zap.L().Error("failed to sum ledger balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) Insert(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	query := `
        INSERT INTO ledger_entries (scope_type, scope_id, change, reason, question_id, order_id, meta)
        VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb))
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query,
		entry.ScopeType, entry.ScopeID, entry.Change, entry.Reason, entry.QuestionID, entry.OrderID, entry.Meta)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		zap.L().Error("failed to insert ledger entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *Repository) ListByScope(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, scope_type, scope_id, change, reason, question_id, order_id, meta, created_at
        FROM ledger_entries
        WHERE scope_type = $1 AND scope_id = $2
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4
    `
	rows, err := r.db.Query(ctx, query, scope.Type, scope.ID, limit, offset)
	if err != nil {
		zap.L().Error("failed to list ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(&e.ID, &e.ScopeType, &e.ScopeID, &e.Change, &e.Reason, &e.QuestionID, &e.OrderID, &e.Meta, &e.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan ledger entry", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, scope_type, scope_id, change, reason, question_id, order_id, meta, created_at
        FROM ledger_entries
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		zap.L().Error("failed to list ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(&e.ID, &e.ScopeType, &e.ScopeID, &e.Change, &e.Reason, &e.QuestionID, &e.OrderID, &e.Meta, &e.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan ledger entry", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete exists for admin correction tooling only; the normal flow never
// removes entries.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("failed to delete ledger entry", zap.Error(err))
	}
	return err
}
