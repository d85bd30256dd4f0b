package blobstore

import (
	"context"
	"time"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/random"
)

// Mock is an in-memory Client for pipeline tests, mirroring the teacher's
// core/worker/mock.go and core/broker/mock.go style.
type Mock struct {
	objects map[string][]byte

	// LatencyJitter, when non-zero, makes Get sleep a random duration in
	// [0, LatencyJitter) before returning, so tests of the pipeline's
	// bounded-concurrency download fan-out can exercise real interleaving
	// instead of every goroutine completing in lockstep.
	LatencyJitter time.Duration
}

func NewMock() *Mock {
	return &Mock{objects: make(map[string][]byte)}
}

func (m *Mock) Put(_ context.Context, key string, data []byte, _ string) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = cp
	return nil
}

func (m *Mock) Get(ctx context.Context, key string) ([]byte, error) {
	if m.LatencyJitter > 0 {
		jitter := time.Duration(random.Int(0, int(m.LatencyJitter)))
		select {
		case <-time.After(jitter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, errkind.New(errkind.NotFound, "mock blobstore: no such key "+key)
	}
	return data, nil
}

func (m *Mock) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *Mock) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *Mock) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := m.objects[key]; !ok {
		return "", errkind.New(errkind.NotFound, "mock blobstore: no such key "+key)
	}
	return "mock://" + key, nil
}
