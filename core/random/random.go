// Package random は回帰モデルの初期パラメータを生成する一様乱数源を提供します。
//
// モデルは Initializer インターフェースだけに依存するため、テストでは
// NewSeeded や Func で決定的な値を注入できます。
package random

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer draws values uniformly from [low, high).
type Initializer interface {
	Uniform(low, high float64) float64
}

// Func adapts an ordinary function to Initializer.
type Func func(low, high float64) float64

// Uniform calls f(low, high).
func (f Func) Uniform(low, high float64) float64 {
	return f(low, high)
}

// source draws from a distuv.Uniform over src. mu is nil when src is already
// safe for concurrent use.
type source struct {
	mu  *sync.Mutex
	src rand.Source
}

func (s *source) Uniform(low, high float64) float64 {
	if s.mu != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if high <= low {
		return low
	}
	u := distuv.Uniform{Min: low, Max: high, Src: s.src}
	return u.Rand()
}

// globalSource forwards to the top-level math/rand/v2 functions, which are
// seeded randomly at startup and safe for concurrent use.
type globalSource struct{}

func (globalSource) Uint64() uint64 { return rand.Uint64() }

var defaultInitializer Initializer = &source{src: globalSource{}}

// Default returns the process-wide initializer. It is created once and is
// non-deterministic across runs.
func Default() Initializer {
	return defaultInitializer
}

// NewSeeded returns a deterministic initializer backed by a PCG generator.
// Two initializers created with the same seed produce the same sequence.
func NewSeeded(seed uint64) Initializer {
	return &source{
		mu:  &sync.Mutex{},
		src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}
