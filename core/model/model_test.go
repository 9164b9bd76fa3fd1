package model

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/linreg/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	s.SetFitted(3, 100)
	assert.True(t, s.IsFitted())
	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 100, ns)
	assert.Equal(t, ModelState{Fitted: true, NFeatures: 3, NSamples: 100}, s.GetState())

	s.Reset()
	assert.Equal(t, ModelState{}, s.GetState())

	s.SetState(ModelState{Fitted: true, NFeatures: 1})
	assert.True(t, s.IsFitted())
}

func TestStateManager_Concurrent(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetFitted(i, i)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
			_, _ = s.GetDimensions()
		}()
	}
	wg.Wait()
	assert.True(t, s.IsFitted())
}

func validWeights() *Weights {
	return &Weights{
		ModelType:    ModelTypeMultiple,
		Version:      WeightsVersion,
		Coefficients: []float64{2, -3},
		Intercept:    5,
		IsFitted:     true,
		Metadata:     map[string]interface{}{"n_samples": 10},
	}
}

func TestWeights_Validate(t *testing.T) {
	require.NoError(t, validWeights().Validate())

	tests := []struct {
		name   string
		mutate func(w *Weights)
	}{
		{"missing type", func(w *Weights) { w.ModelType = "" }},
		{"wrong version", func(w *Weights) { w.Version = "0.1" }},
		{"no coefficients", func(w *Weights) { w.Coefficients = nil }},
		{"nan coefficient", func(w *Weights) { w.Coefficients[1] = math.NaN() }},
		{"inf intercept", func(w *Weights) { w.Intercept = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWeights()
			tt.mutate(w)
			err := w.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestWeights_Clone(t *testing.T) {
	w := validWeights()
	c := w.Clone()
	assert.Equal(t, w, c)

	c.Coefficients[0] = 100
	c.Metadata["n_samples"] = 0
	assert.Equal(t, 2.0, w.Coefficients[0])
	assert.Equal(t, 10, w.Metadata["n_samples"])
}

func TestWriteReadWeights(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeights(&buf, validWeights()))
	assert.Contains(t, buf.String(), `"intercept": 5`)
	assert.Contains(t, buf.String(), `"coefficients"`)

	got, err := ReadWeights(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -3}, got.Coefficients)
	assert.Equal(t, 5.0, got.Intercept)
	assert.Equal(t, ModelTypeMultiple, got.ModelType)
}

func TestReadWeights_Malformed(t *testing.T) {
	_, err := ReadWeights(bytes.NewBufferString("{not json"))
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))

	_, err = ReadWeights(bytes.NewBufferString(`{"model_type":"SimpleRegressor","version":"1.0"}`))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

// fakeModel stores whatever weights it is given.
type fakeModel struct {
	weights *Weights
}

func (f *fakeModel) ExportWeights() (*Weights, error) { return f.weights.Clone(), nil }

func (f *fakeModel) ImportWeights(w *Weights) error {
	f.weights = w.Clone()
	return nil
}

func TestSaveLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	src := &fakeModel{weights: validWeights()}
	require.NoError(t, SaveWeights(src, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	dst := &fakeModel{}
	require.NoError(t, LoadWeights(dst, path))
	assert.Equal(t, src.weights.Coefficients, dst.weights.Coefficients)
	assert.Equal(t, src.weights.Intercept, dst.weights.Intercept)

	err = LoadWeights(dst, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
