package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one timetable image waiting to be imported.
type Job struct {
	ID          uuid.UUID
	OwnerID     string
	Path        string
	Mode        string
	Hint        string
	SubmittedAt time.Time
}

// Handler imports a single job.
type Handler func(ctx context.Context, job Job) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
