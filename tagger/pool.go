package tagger

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed indicates an acquire on a closed session pool.
var ErrPoolClosed = errors.New("tagger: session pool is closed")

// pool holds pre-created ONNX sessions so an ONNXModel can serve
// concurrent Predict calls without per-call session setup.
type pool struct {
	sessions chan *session
	mu       sync.Mutex
	closed   bool
}

func newPool(modelPath string, size int) (*pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &pool{sessions: make(chan *session, size)}
	for i := 0; i < size; i++ {
		s, err := newSession(modelPath)
		if err != nil {
			// Best-effort cleanup; the original error takes precedence.
			_ = p.close()
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.sessions <- s
	}
	return p, nil
}

// acquire blocks until a session is available or ctx is done.
func (p *pool) acquire(ctx context.Context) (*session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pool) release(s *session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = s.close()
		return
	}
	p.mu.Unlock()

	select {
	case p.sessions <- s:
	default:
		_ = s.close()
	}
}

func (p *pool) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)

	var errs []error
	for s := range p.sessions {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
