package tagger

import (
	"context"
	"math"
	"runtime"

	"github.com/cespare/xxhash"
)

const (
	// defaultHashBuckets is the feature-hashing vocabulary size; it must
	// match the bucket count the model was exported with.
	defaultHashBuckets = 1 << 20

	// defaultFeatureSlots is the per-position feature capacity. The
	// character feature scheme emits at most 15 tokens per position.
	defaultFeatureSlots = 15

	defaultBoundaryThreshold = 0.5
)

// ONNXModel is an inference-only Model backed by a sequence tagger
// exported to ONNX. Feature strings are mapped to bucketed IDs with the
// hashing trick; the model emits one boundary logit per position. It is
// safe for concurrent use via an internal session pool.
type ONNXModel struct {
	pool      *pool
	buckets   uint64
	slots     int
	threshold float32
	labels    [2]string // [0] below threshold, [1] at or above
	sessions  int
}

// ONNXOption configures an ONNXModel.
type ONNXOption func(*ONNXModel)

// WithHashBuckets sets the feature-hashing bucket count (default: 1<<20).
func WithHashBuckets(n uint64) ONNXOption {
	return func(m *ONNXModel) {
		if n > 0 {
			m.buckets = n
		}
	}
}

// WithFeatureSlots sets the per-position feature capacity (default: 15).
// Extra features are dropped, missing ones are masked out.
func WithFeatureSlots(n int) ONNXOption {
	return func(m *ONNXModel) {
		if n > 0 {
			m.slots = n
		}
	}
}

// WithBoundaryThreshold sets the sigmoid cutoff for the boundary label
// (default: 0.5).
func WithBoundaryThreshold(t float32) ONNXOption {
	return func(m *ONNXModel) {
		m.threshold = t
	}
}

// WithSessions sets the ONNX session pool size (default: runtime.NumCPU()).
func WithSessions(n int) ONNXOption {
	return func(m *ONNXModel) {
		if n > 0 {
			m.sessions = n
		}
	}
}

// NewONNX loads an exported tagger model. The two output labels default to
// "0" (in sentence) and "1" (boundary).
func NewONNX(modelPath string, opts ...ONNXOption) (*ONNXModel, error) {
	m := &ONNXModel{
		buckets:   defaultHashBuckets,
		slots:     defaultFeatureSlots,
		threshold: defaultBoundaryThreshold,
		labels:    [2]string{"0", "1"},
		sessions:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(m)
	}

	p, err := newPool(modelPath, m.sessions)
	if err != nil {
		return nil, err
	}
	m.pool = p
	return m, nil
}

// Predict hashes the feature sequence, runs the model, and thresholds the
// per-position logits into labels.
func (m *ONNXModel) Predict(ctx context.Context, features [][]string) ([]string, error) {
	n := len(features)
	if n == 0 {
		return nil, nil
	}

	ids := make([]int64, n*m.slots)
	mask := make([]int64, n*m.slots)
	for i, fs := range features {
		row := i * m.slots
		for j, f := range fs {
			if j >= m.slots {
				break
			}
			// Bucket 0 is reserved for padding.
			ids[row+j] = int64(xxhash.Sum64String(f)%(m.buckets-1)) + 1
			mask[row+j] = 1
		}
	}

	s, err := m.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer m.pool.release(s)

	logits, err := s.infer(ctx, ids, mask, n, m.slots)
	if err != nil {
		return nil, err
	}

	labels := make([]string, n)
	for i, logit := range logits {
		if sigmoid(logit) >= m.threshold {
			labels[i] = m.labels[1]
		} else {
			labels[i] = m.labels[0]
		}
	}
	return labels, nil
}

// Close releases the underlying ONNX sessions.
func (m *ONNXModel) Close() error {
	if m.pool == nil {
		return nil
	}
	return m.pool.close()
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
