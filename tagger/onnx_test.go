package tagger

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testONNXPath = "testdata/tagger.onnx"

// skipIfNoONNX skips tests that need a real exported model.
func skipIfNoONNX(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testONNXPath); err != nil {
		t.Skipf("Skipping: ONNX model not available at %s", testONNXPath)
	}
}

func TestNewONNX_MissingModel(t *testing.T) {
	_, err := NewONNX("nonexistent/tagger.onnx")
	assert.Error(t, err)
}

func TestONNXModel_Predict(t *testing.T) {
	skipIfNoONNX(t)

	m, err := NewONNX(testONNXPath, WithSessions(1))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	labels, err := m.Predict(context.Background(), [][]string{
		{"lower=a", "isupper=false", "isnumeric=false"},
		{"lower=.", "isupper=false", "isnumeric=false"},
		{"lower= ", "isupper=false", "isnumeric=false"},
	})
	require.NoError(t, err)
	assert.Len(t, labels, 3)
	for _, l := range labels {
		assert.Contains(t, []string{"0", "1"}, l)
	}
}

func TestONNXModel_Predict_Empty(t *testing.T) {
	skipIfNoONNX(t)

	m, err := NewONNX(testONNXPath, WithSessions(1))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	labels, err := m.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, labels)
}
