package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is the smallest useful unit of queued work.
type Job struct {
	DocumentID  uuid.UUID
	Force       bool // enqueue even if the document was deduplicated
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
