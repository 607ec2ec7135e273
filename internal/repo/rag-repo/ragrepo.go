package ragrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

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

func (r *Repository) CreateDocument(ctx context.Context, d *domain.RagDocument) (*domain.RagDocument, error) {
	query := `
        INSERT INTO rag_documents (tenant_id, title, source, status, chunk_count)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, d.TenantID, d.Title, d.Source, d.Status, d.ChunkCount)
	if err := row.Scan(&d.ID, &d.CreatedAt); err != nil {
		zap.L().Error("failed to create rag document", zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (r *Repository) FindDocument(ctx context.Context, id uuid.UUID) (*domain.RagDocument, error) {
	query := `
        SELECT id, tenant_id, title, source, status, chunk_count, created_at
        FROM rag_documents
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var d domain.RagDocument
	err := row.Scan(&d.ID, &d.TenantID, &d.Title, &d.Source, &d.Status, &d.ChunkCount, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find rag document", zap.Error(err))
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListDocuments(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.RagDocument, error) {
	query := `
        SELECT id, tenant_id, title, source, status, chunk_count, created_at
        FROM rag_documents
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		zap.L().Error("failed to list rag documents", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var docs []domain.RagDocument
	for rows.Next() {
		var d domain.RagDocument
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Title, &d.Source, &d.Status, &d.ChunkCount, &d.CreatedAt); err != nil {
			zap.L().Error("failed to scan rag document", zap.Error(err))
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *Repository) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE rag_documents SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		zap.L().Error("failed to update rag document status", zap.Error(err))
	}
	return err
}

func (r *Repository) DeleteDocuments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM rag_documents WHERE id = ANY($1)`, ids)
	if err != nil {
		zap.L().Error("failed to delete rag documents", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) InsertChunk(ctx context.Context, c *domain.RagChunk) (*domain.RagChunk, error) {
	query := `
        INSERT INTO rag_chunks (document_id, idx, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query, c.DocumentID, c.Idx, c.Content)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		zap.L().Error("failed to insert rag chunk", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) FindChunk(ctx context.Context, id uuid.UUID) (*domain.RagChunk, error) {
	query := `
        SELECT id, document_id, idx, content, embedding, created_at
        FROM rag_chunks
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var c domain.RagChunk
	err := row.Scan(&c.ID, &c.DocumentID, &c.Idx, &c.Content, &c.Embedding, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to find rag chunk", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *Repository) SetChunkEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	_, err := r.db.Exec(ctx, `UPDATE rag_chunks SET embedding = $1 WHERE id = $2`, embedding, id)
	if err != nil {
		zap.L().Error("failed to set chunk embedding", zap.Error(err))
	}
	return err
}

// CountPendingChunks reports how many chunks of a document still miss vectors.
func (r *Repository) CountPendingChunks(ctx context.Context, documentID uuid.UUID) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rag_chunks WHERE document_id = $1 AND embedding IS NULL`, documentID)
	var n int
	if err := row.Scan(&n); err != nil {
		zap.L().Error("failed to count pending chunks", zap.Error(err))
		return 0, err
	}
	return n, nil
}
