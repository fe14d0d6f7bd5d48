package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	mu   sync.Mutex
	seen []uuid.UUID
	err  error
}

func (f *fakeProcessor) ProcessDocument(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, id)
	return uuid.New(), f.err
}

func (f *fakeProcessor) processed() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uuid.UUID, len(f.seen))
	copy(out, f.seen)
	return out
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(16))

	want := make(map[uuid.UUID]bool)
	for i := 0; i < 10; i++ {
		id := uuid.New()
		want[id] = true
		require.NoError(t, q.Enqueue(context.Background(), Job{DocumentID: id, SubmittedAt: time.Now()}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	got := proc.processed()
	require.Len(t, got, 10)
	for _, id := range got {
		assert.True(t, want[id], "unexpected document %s", id)
	}
}

func TestQueueContinuesAfterProcessorError(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	q := NewProcessorQueue(proc, nil, WithWorkers(1))

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Len(t, proc.processed(), 3, "a failing job must not stop the worker")
}

func TestQueueEnqueueAfterShutdownIsDropped(t *testing.T) {
	proc := &fakeProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	require.NoError(t, q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}))
	assert.Empty(t, proc.processed())
}

func TestQueueShutdownIsIdempotent(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
	q.Shutdown(ctx)
}
