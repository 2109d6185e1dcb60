package tagger

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/golang/snappy"
)

// modelMagic identifies a persisted CRF model file; the trailing byte is
// the format version.
var modelMagic = []byte("CRFSEQ\x00\x01")

// modelFile is the serialized form of a CRF.
type modelFile struct {
	Labels []string
	State  map[string][]float64
	Trans  [][]float64
}

// Save writes the model to path: magic header followed by a
// snappy-compressed gob payload.
func (c *CRF) Save(path string) error {
	var payload bytes.Buffer
	zw := snappy.NewBufferedWriter(&payload)
	if err := gob.NewEncoder(zw).Encode(modelFile{
		Labels: c.labels,
		State:  c.state,
		Trans:  c.trans,
	}); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing model: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	if _, err := f.Write(modelMagic); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing model file: %w", err)
	}
	if _, err := payload.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing model file: %w", err)
	}
	return f.Close()
}

// Load reads a model persisted by Save. A file without the expected
// header fails with ErrBadModel.
func Load(path string) (*CRF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	if len(data) < len(modelMagic) || !bytes.Equal(data[:len(modelMagic)], modelMagic) {
		return nil, ErrBadModel
	}

	var mf modelFile
	zr := snappy.NewReader(bytes.NewReader(data[len(modelMagic):]))
	if err := gob.NewDecoder(zr).Decode(&mf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadModel, err)
	}
	if len(mf.Labels) == 0 || len(mf.Trans) != len(mf.Labels) {
		return nil, fmt.Errorf("%w: inconsistent label tables", ErrBadModel)
	}

	crf := &CRF{
		labels:   mf.Labels,
		labelIdx: make(map[string]int, len(mf.Labels)),
		state:    mf.State,
		trans:    mf.Trans,
	}
	if crf.state == nil {
		crf.state = make(map[string][]float64)
	}
	for i, l := range mf.Labels {
		crf.labelIdx[l] = i
	}
	return crf, nil
}
