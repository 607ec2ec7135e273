package ledgerrepo

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/easycustoms360/backend/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, nil)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_LockScope(t *testing.T) {
	repo, mock := NewMock(t)
	scope := domain.UserScope(uuid.New())

	query := regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`)

	t.Run("Scope locked", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(scope.Type, scope.ID.String()).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))

		err := repo.LockScope(context.Background(), scope)
		assert.NoError(t, err)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(scope.Type, scope.ID.String()).
			WillReturnError(errors.New("database error"))

		err := repo.LockScope(context.Background(), scope)
		assert.Error(t, err)
	})
}

func TestRepository_GetBalance(t *testing.T) {
	repo, mock := NewMock(t)
	scope := domain.UserScope(uuid.New())

	query := regexp.QuoteMeta(`
        SELECT COALESCE(SUM(change), 0)
        FROM (
            SELECT change
            FROM ledger_entries
            WHERE scope_type = $1 AND scope_id = $2
            ORDER BY created_at DESC
            LIMIT $3
        ) recent
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		balance   decimal.Decimal
	}{
		{
			name: "Balance summed",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"coalesce"}).
					AddRow(decimal.RequireFromString("12.5"))
				mock.ExpectQuery(query).
					WithArgs(scope.Type, scope.ID, balanceRowCap).
					WillReturnRows(rows)
			},
			balance: decimal.RequireFromString("12.5"),
		},
		{
			name: "Empty scope sums to zero",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.Zero)
				mock.ExpectQuery(query).
					WithArgs(scope.Type, scope.ID, balanceRowCap).
					WillReturnRows(rows)
			},
			balance: decimal.Zero,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(scope.Type, scope.ID, balanceRowCap).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			balance, err := repo.GetBalance(context.Background(), scope)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.balance.Equal(balance))
			}
		})
	}
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := NewMock(t)
	entryID := uuid.New()
	scopeID := uuid.New()
	createdAt := time.Now()

	query := regexp.QuoteMeta(`
        INSERT INTO ledger_entries (scope_type, scope_id, change, reason, question_id, order_id, meta)
        VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb))
        RETURNING id, created_at
    `)

	t.Run("Entry inserted", func(t *testing.T) {
		entry := &domain.LedgerEntry{
			ScopeType: domain.ScopeUser,
			ScopeID:   scopeID,
			Change:    decimal.NewFromInt(-1),
			Reason:    "question_debit",
			Meta:      json.RawMessage(`{"note":"test"}`),
		}
		rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(entryID, createdAt)
		mock.ExpectQuery(query).
			WithArgs(entry.ScopeType, entry.ScopeID, entry.Change, entry.Reason,
				(*uuid.UUID)(nil), (*uuid.UUID)(nil), entry.Meta).
			WillReturnRows(rows)

		inserted, err := repo.Insert(context.Background(), entry)
		assert.NoError(t, err)
		assert.Equal(t, entryID, inserted.ID)
		assert.Equal(t, createdAt, inserted.CreatedAt)
	})

	t.Run("Database error", func(t *testing.T) {
		entry := &domain.LedgerEntry{
			ScopeType: domain.ScopeUser,
			ScopeID:   scopeID,
			Change:    decimal.NewFromInt(10),
			Reason:    "order_paid",
		}
		mock.ExpectQuery(query).
			WithArgs(entry.ScopeType, entry.ScopeID, entry.Change, entry.Reason,
				(*uuid.UUID)(nil), (*uuid.UUID)(nil), entry.Meta).
			WillReturnError(errors.New("database error"))

		_, err := repo.Insert(context.Background(), entry)
		assert.Error(t, err)
	})
}

func TestRepository_ListByScope(t *testing.T) {
	repo, mock := NewMock(t)
	scope := domain.UserScope(uuid.New())
	createdAt := time.Now()

	query := regexp.QuoteMeta(`
        SELECT id, scope_type, scope_id, change, reason, question_id, order_id, meta, created_at
        FROM ledger_entries
        WHERE scope_type = $1 AND scope_id = $2
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4
    `)

	t.Run("Entries listed", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "scope_type", "scope_id", "change", "reason", "question_id", "order_id", "meta", "created_at"}).
			AddRow(uuid.New(), scope.Type, scope.ID, decimal.NewFromInt(10), "order_paid",
				(*uuid.UUID)(nil), (*uuid.UUID)(nil), json.RawMessage(`{}`), createdAt).
			AddRow(uuid.New(), scope.Type, scope.ID, decimal.NewFromInt(-1), "question_debit",
				(*uuid.UUID)(nil), (*uuid.UUID)(nil), json.RawMessage(`{}`), createdAt)
		mock.ExpectQuery(query).
			WithArgs(scope.Type, scope.ID, 50, 0).
			WillReturnRows(rows)

		entries, err := repo.ListByScope(context.Background(), scope, 50, 0)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "order_paid", entries[0].Reason)
		assert.Equal(t, "question_debit", entries[1].Reason)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(scope.Type, scope.ID, 50, 0).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListByScope(context.Background(), scope, 50, 0)
		assert.Error(t, err)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)
	entryID := uuid.New()

	t.Run("Entry deleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ledger_entries WHERE id = $1`)).
			WithArgs(entryID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(context.Background(), entryID)
		assert.NoError(t, err)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ledger_entries WHERE id = $1`)).
			WithArgs(entryID).
			WillReturnError(errors.New("database error"))

		err := repo.Delete(context.Background(), entryID)
		assert.Error(t, err)
	})
}
