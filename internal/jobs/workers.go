package jobs

import (
	"context"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ChunkEmbedder is the piece of the ingestion service the embed worker needs.
type ChunkEmbedder interface {
	EmbedChunk(ctx context.Context, chunkID uuid.UUID) error
}

// Sender is the piece of the mailer the email worker needs.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EmbedChunkWorker struct {
	river.WorkerDefaults[EmbedChunkArgs]
	embedder ChunkEmbedder
}

func NewEmbedChunkWorker(embedder ChunkEmbedder) *EmbedChunkWorker {
	return &EmbedChunkWorker{embedder: embedder}
}

func (w *EmbedChunkWorker) Work(ctx context.Context, job *river.Job[EmbedChunkArgs]) error {
	if err := w.embedder.EmbedChunk(ctx, job.Args.ChunkID); err != nil {
		zap.L().Error("embed chunk job failed",
			zap.String("chunk_id", job.Args.ChunkID.String()),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
		return err
	}
	return nil
}

type SendEmailWorker struct {
	river.WorkerDefaults[SendEmailArgs]
	sender Sender
}

func NewSendEmailWorker(sender Sender) *SendEmailWorker {
	return &SendEmailWorker{sender: sender}
}

func (w *SendEmailWorker) Work(ctx context.Context, job *river.Job[SendEmailArgs]) error {
	if err := w.sender.Send(ctx, job.Args.To, job.Args.Subject, job.Args.Body); err != nil {
		zap.L().Error("send email job failed",
			zap.String("to", job.Args.To),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
		return err
	}
	return nil
}
