package linear

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/linreg/core/model"
	"github.com/YuminosukeSato/linreg/metrics"
	"github.com/YuminosukeSato/linreg/pkg/errors"
	"github.com/YuminosukeSato/linreg/pkg/log"
)

// SimpleRegressor は説明変数が1つの最小二乗回帰モデル y = slope·x + intercept
//
// パラメータは読み書きロックで保護されており、Predict は並行に呼び出せる。
// Fit が失敗した場合、パラメータは変更されない。
type SimpleRegressor struct {
	mu        sync.RWMutex
	slope     float64
	intercept float64

	state *model.StateManager
	cfg   config
}

// NewSimpleRegressor は傾きと切片を [-1, 1) の一様乱数で初期化したモデルを作成する
func NewSimpleRegressor(opts ...Option) *SimpleRegressor {
	cfg := newConfig(opts)
	return &SimpleRegressor{
		slope:     cfg.initializer.Uniform(-1, 1),
		intercept: cfg.initializer.Uniform(-1, 1),
		state:     model.NewStateManager(),
		cfg:       cfg,
	}
}

// Predict は slope·x + intercept を返す
func (r *SimpleRegressor) Predict(x float64) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slope*x + r.intercept
}

// PredictBatch は各 x に対する予測値を返す
func (r *SimpleRegressor) PredictBatch(x []float64) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = r.slope*v + r.intercept
	}
	return out
}

// SetParams は傾きと切片を上書きする。値は検証しない
func (r *SimpleRegressor) SetParams(slope, intercept float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slope = slope
	r.intercept = intercept
}

// Params は現在の傾きと切片を返す
func (r *SimpleRegressor) Params() (slope, intercept float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slope, r.intercept
}

// Slope は現在の傾きを返す
func (r *SimpleRegressor) Slope() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slope
}

// Intercept は現在の切片を返す
func (r *SimpleRegressor) Intercept() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.intercept
}

// Coefficients は傾きを要素1のスライスとして返す
func (r *SimpleRegressor) Coefficients() []float64 {
	return []float64{r.Slope()}
}

// IsFitted はFitが成功したかどうかを返す
func (r *SimpleRegressor) IsFitted() bool {
	return r.state.IsFitted()
}

// Fit は閉形式の最小二乗推定で傾きと切片を求める
//
//	slope     = Σ(x−x̄)(y−ȳ) / Σ(x−x̄)²
//	intercept = ȳ − slope·x̄
//
// x と y の長さが異なるか空の場合は InvalidInput、x がすべて同じ値の場合は
// DegenerateFit を返し、どちらの場合もモデルは変更されない。
func (r *SimpleRegressor) Fit(x, y []float64) (err error) {
	const op = "SimpleRegressor.Fit"
	logger := r.cfg.log(model.ModelTypeSimple)
	start := time.Now()
	defer func() {
		if err != nil {
			logger.Debug("fit failed", err,
				log.OperationKey, log.OperationFit,
				log.SamplesKey, len(y),
			)
		}
	}()
	defer errors.Recover(&err, op)

	if len(x) != len(y) {
		return errors.NewInvalidInputErrorf(op, "x has %d values but y has %d", len(x), len(y))
	}
	n := len(x)
	if n == 0 {
		return errors.NewInvalidInputError(op, "empty training set")
	}
	if err := errors.CheckFinite(op, "x", x); err != nil {
		return err
	}
	if err := errors.CheckFinite(op, "y", y); err != nil {
		return err
	}

	slope, intercept, err := fitSimple(op, x, y)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.slope = slope
	r.intercept = intercept
	r.mu.Unlock()
	r.state.SetFitted(1, n)

	logger.Debug("fit finished",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		"slope", slope,
		"intercept", intercept,
	)
	return nil
}

// fitSimple は非空で長さの等しい有限値の x, y から傾きと切片を計算する
func fitSimple(op string, x, y []float64) (slope, intercept float64, err error) {
	if floats.Min(x) == floats.Max(x) {
		return 0, 0, errors.NewDegenerateFitError(op, "all x values are identical", 0)
	}

	n := float64(len(x))
	meanX := floats.Sum(x) / n
	meanY := floats.Sum(y) / n

	// 平均を引いてから積和を取る（桁落ち対策）
	var sxx, sxy float64
	for i, xi := range x {
		dx := xi - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}
	if sxx <= 0 || math.IsInf(sxx, 0) {
		return 0, 0, errors.NewDegenerateFitError(op, "predictor has no usable variance", sxx)
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX
	if !errors.IsFinite(slope) || !errors.IsFinite(intercept) {
		return 0, 0, errors.NewDegenerateFitError(op, "estimate is not finite", sxx)
	}
	return slope, intercept, nil
}

// Score は決定係数 R² を返す
func (r *SimpleRegressor) Score(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, errors.NewDimensionError("SimpleRegressor.Score", len(x), len(y), 0)
	}
	return metrics.R2Score(y, r.PredictBatch(x))
}

// ExportWeights はモデルの重みをエクスポートする。係数は [slope]
func (r *SimpleRegressor) ExportWeights() (*model.Weights, error) {
	slope, intercept := r.Params()
	state := r.state.GetState()
	return &model.Weights{
		ModelType:    model.ModelTypeSimple,
		Version:      model.WeightsVersion,
		Coefficients: []float64{slope},
		Intercept:    intercept,
		IsFitted:     state.Fitted,
		Metadata: map[string]interface{}{
			"n_samples": state.NSamples,
		},
	}, nil
}

// ImportWeights は重みをインポートする
func (r *SimpleRegressor) ImportWeights(w *model.Weights) error {
	const op = "SimpleRegressor.ImportWeights"
	if w == nil {
		return errors.NewInvalidInputError(op, "weights are nil")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != model.ModelTypeSimple {
		return errors.NewInvalidInputErrorf(op, "model type %q does not match %q", w.ModelType, model.ModelTypeSimple)
	}
	if len(w.Coefficients) != 1 {
		return errors.NewDimensionError(op, 1, len(w.Coefficients), 1)
	}

	r.SetParams(w.Coefficients[0], w.Intercept)
	if w.IsFitted {
		r.state.SetState(model.ModelState{Fitted: true, NFeatures: 1})
	} else {
		r.state.Reset()
	}
	return nil
}
