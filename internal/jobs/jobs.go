package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// EmbedChunkArgs schedules the embedding of one stored document chunk.
type EmbedChunkArgs struct {
	ChunkID    uuid.UUID `json:"chunk_id"`
	DocumentID uuid.UUID `json:"document_id"`
}

func (EmbedChunkArgs) Kind() string { return "embed_chunk" }

// SendEmailArgs schedules one transactional email.
type SendEmailArgs struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (SendEmailArgs) Kind() string { return "send_email" }

// Client enqueues background jobs. It is constructed empty and bound to the
// queue client once the workers that depend on the services are registered.
type Client struct {
	river *river.Client[pgx.Tx]
}

func NewClient() *Client {
	return &Client{}
}

// Bind attaches the underlying queue client. Must run before the first enqueue.
func (c *Client) Bind(rc *river.Client[pgx.Tx]) {
	c.river = rc
}

var ErrNotBound = errors.New("job client is not bound to a queue")

func (c *Client) EnqueueEmbedChunk(ctx context.Context, chunkID, documentID uuid.UUID) error {
	if c.river == nil {
		return ErrNotBound
	}
	_, err := c.river.Insert(ctx, EmbedChunkArgs{ChunkID: chunkID, DocumentID: documentID}, nil)
	return err
}

func (c *Client) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	if c.river == nil {
		return ErrNotBound
	}
	_, err := c.river.Insert(ctx, SendEmailArgs{To: to, Subject: subject, Body: body}, nil)
	return err
}
