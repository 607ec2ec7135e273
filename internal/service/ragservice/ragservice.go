package ragservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easycustoms360/backend/internal/domain"
	"github.com/easycustoms360/backend/internal/pg"
)

type Repo interface {
	CreateDocument(ctx context.Context, d *domain.RagDocument) (*domain.RagDocument, error)
	FindDocument(ctx context.Context, id uuid.UUID) (*domain.RagDocument, error)
	ListDocuments(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.RagDocument, error)
	UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteDocuments(ctx context.Context, ids []uuid.UUID) (int64, error)
	InsertChunk(ctx context.Context, c *domain.RagChunk) (*domain.RagChunk, error)
	FindChunk(ctx context.Context, id uuid.UUID) (*domain.RagChunk, error)
	SetChunkEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	CountPendingChunks(ctx context.Context, documentID uuid.UUID) (int, error)

	ListProfiles(ctx context.Context) ([]domain.AnswerProfile, error)
	CreateProfile(ctx context.Context, p *domain.AnswerProfile) (*domain.AnswerProfile, error)
	UpdateProfile(ctx context.Context, p *domain.AnswerProfile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// Embedder turns texts into vectors via the provider HTTP API.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Enqueuer schedules asynchronous embedding of a stored chunk.
type Enqueuer interface {
	EnqueueEmbedChunk(ctx context.Context, chunkID, documentID uuid.UUID) error
}

type Service struct {
	ragRepo   Repo
	embedder  Embedder
	enqueuer  Enqueuer
	txManager pg.TXManager
	target    int
	overlap   int
}

func New(ragRepo Repo, embedder Embedder, enqueuer Enqueuer, txManager pg.TXManager, target, overlap int) *Service {
	return &Service{
		ragRepo:   ragRepo,
		embedder:  embedder,
		enqueuer:  enqueuer,
		txManager: txManager,
		target:    target,
		overlap:   overlap,
	}
}

const (
	DocStatusPending  = "pending"
	DocStatusIngested = "ingested"
	DocStatusFailed   = "failed"
)

var (
	ErrEmptyDocument    = errors.New("document text is empty")
	ErrDocumentNotFound = errors.New("document not found")
	ErrChunkNotFound    = errors.New("chunk not found")
)

// Ingest stores the document with its chunks and schedules one embedding job
// per chunk. The document and chunk rows land in one transaction; vectors
// arrive asynchronously.
func (s *Service) Ingest(ctx context.Context, tenantID uuid.UUID, title, source, text string) (*domain.RagDocument, error) {
	chunks := ChunkText(text, s.target, s.overlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	doc := &domain.RagDocument{
		TenantID:   tenantID,
		Title:      title,
		Source:     source,
		Status:     DocStatusPending,
		ChunkCount: len(chunks),
	}
	stored := make([]*domain.RagChunk, 0, len(chunks))

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.ragRepo.CreateDocument(ctx, doc)
		if err != nil {
			return err
		}
		for i, content := range chunks {
			c := &domain.RagChunk{
				DocumentID: doc.ID,
				Idx:        i,
				Content:    content,
			}
			if _, err := s.ragRepo.InsertChunk(ctx, c); err != nil {
				return err
			}
			stored = append(stored, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range stored {
		if err := s.enqueuer.EnqueueEmbedChunk(ctx, c.ID, doc.ID); err != nil {
			zap.L().Error("failed to enqueue chunk embedding",
				zap.String("chunk_id", c.ID.String()), zap.Error(err))
		}
	}

	zap.L().Info("document ingested",
		zap.String("document_id", doc.ID.String()),
		zap.Int("chunks", len(chunks)))
	return doc, nil
}

// EmbedChunk is the body of the embedding job: fetch the chunk, call the
// embeddings API, store the vector, and flip the document to ingested once no
// chunk is missing one. An API failure marks the document failed; chunks
// embedded so far stay in place.
func (s *Service) EmbedChunk(ctx context.Context, chunkID uuid.UUID) error {
	chunk, err := s.ragRepo.FindChunk(ctx, chunkID)
	if err != nil {
		return err
	}
	if chunk == nil {
		return ErrChunkNotFound
	}
	if len(chunk.Embedding) > 0 {
		return nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{chunk.Content})
	if err != nil || len(vectors) != 1 {
		zap.L().Error("embedding api call failed",
			zap.String("chunk_id", chunkID.String()), zap.Error(err))
		if statusErr := s.ragRepo.UpdateDocumentStatus(ctx, chunk.DocumentID, DocStatusFailed); statusErr != nil {
			return statusErr
		}
		if err == nil {
			err = errors.New("embedding api returned unexpected vector count")
		}
		return err
	}

	if err := s.ragRepo.SetChunkEmbedding(ctx, chunkID, vectors[0]); err != nil {
		return err
	}

	pending, err := s.ragRepo.CountPendingChunks(ctx, chunk.DocumentID)
	if err != nil {
		return err
	}
	if pending == 0 {
		return s.ragRepo.UpdateDocumentStatus(ctx, chunk.DocumentID, DocStatusIngested)
	}
	return nil
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*domain.RagDocument, error) {
	doc, err := s.ragRepo.FindDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *Service) ListDocuments(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.RagDocument, error) {
	return s.ragRepo.ListDocuments(ctx, tenantID, limit, offset)
}

func (s *Service) DeleteDocuments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.ragRepo.DeleteDocuments(ctx, ids)
}

func (s *Service) ListProfiles(ctx context.Context) ([]domain.AnswerProfile, error) {
	return s.ragRepo.ListProfiles(ctx)
}

func (s *Service) CreateProfile(ctx context.Context, p *domain.AnswerProfile) (*domain.AnswerProfile, error) {
	return s.ragRepo.CreateProfile(ctx, p)
}

func (s *Service) UpdateProfile(ctx context.Context, p *domain.AnswerProfile) error {
	return s.ragRepo.UpdateProfile(ctx, p)
}

func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.ragRepo.DeleteProfile(ctx, id)
}
