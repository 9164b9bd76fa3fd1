package linear

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linreg/core/matrix"
	"github.com/YuminosukeSato/linreg/core/model"
	"github.com/YuminosukeSato/linreg/metrics"
	"github.com/YuminosukeSato/linreg/pkg/errors"
	"github.com/YuminosukeSato/linreg/pkg/log"
)

// MultipleRegressor は重回帰モデル y = Σ cᵢ·xᵢ + intercept
//
// 係数は正規方程式 θ = (AᵗA)⁻¹Aᵗy で求める。A は末尾に1の列を追加した計画行列。
// 係数の個数（次元）は最初の Fit か SetParams、または WithDimension で決まる。
type MultipleRegressor struct {
	mu           sync.RWMutex
	coefficients []float64
	intercept    float64

	state *model.StateManager
	cfg   config
}

// NewMultipleRegressor は切片を [-1, 1) の一様乱数で初期化したモデルを作成する。
// WithDimension(d) が指定された場合は d 個の係数も同様に初期化する。
func NewMultipleRegressor(opts ...Option) *MultipleRegressor {
	cfg := newConfig(opts)
	r := &MultipleRegressor{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
	if cfg.dimension > 0 {
		r.coefficients = make([]float64, cfg.dimension)
		for i := range r.coefficients {
			r.coefficients[i] = cfg.initializer.Uniform(-1, 1)
		}
	}
	r.intercept = cfg.initializer.Uniform(-1, 1)
	return r
}

// Predict は Σ cᵢ·xᵢ + intercept を返す。len(x) が次元と異なる場合は DimensionMismatch
func (r *MultipleRegressor) Predict(x []float64) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(x) != len(r.coefficients) {
		return 0, errors.NewDimensionError("MultipleRegressor.Predict", len(r.coefficients), len(x), 1)
	}
	return floats.Dot(r.coefficients, x) + r.intercept, nil
}

// PredictBatch は各行に対する予測値を返す。次元の合わない行があればエラー
func (r *MultipleRegressor) PredictBatch(X [][]float64) ([]float64, error) {
	const op = "MultipleRegressor.PredictBatch"
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(r.coefficients) {
			return nil, errors.Wrapf(
				errors.NewDimensionError(op, len(r.coefficients), len(row), 1), "row %d", i)
		}
		out[i] = floats.Dot(r.coefficients, row) + r.intercept
	}
	return out, nil
}

// SetParams は係数と切片を上書きする。係数はコピーされ、その長さが新しい次元になる
func (r *MultipleRegressor) SetParams(coefficients []float64, intercept float64) {
	c := make([]float64, len(coefficients))
	copy(c, coefficients)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.coefficients = c
	r.intercept = intercept
}

// Params は係数のコピーと切片を返す
func (r *MultipleRegressor) Params() ([]float64, float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyCoefficients(), r.intercept
}

// Coefficients は係数のコピーを返す
func (r *MultipleRegressor) Coefficients() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyCoefficients()
}

func (r *MultipleRegressor) copyCoefficients() []float64 {
	c := make([]float64, len(r.coefficients))
	copy(c, r.coefficients)
	return c
}

// Intercept は切片を返す
func (r *MultipleRegressor) Intercept() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.intercept
}

// Dimension は説明変数の数を返す。未確定の場合は 0
func (r *MultipleRegressor) Dimension() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.coefficients)
}

// IsFitted はFitが成功したかどうかを返す
func (r *MultipleRegressor) IsFitted() bool {
	return r.state.IsFitted()
}

// Fit は正規方程式でモデルを学習させる
//
// X の行数と y の長さが異なるか空の場合、または説明変数がない場合は
// InvalidInput、行の長さが揃っていない場合は DimensionMismatch、
// AᵗA が特異（共線な列や n < d+1）の場合は SingularSystem を返す。
// 失敗した場合、モデルは変更されない。
func (r *MultipleRegressor) Fit(X [][]float64, y []float64) (err error) {
	const op = "MultipleRegressor.Fit"
	logger := r.cfg.log(model.ModelTypeMultiple)
	start := time.Now()
	defer func() {
		if err != nil {
			logger.Debug("fit failed", err,
				log.OperationKey, log.OperationFit,
				log.SamplesKey, len(X),
				log.SolverKey, r.cfg.solver.String(),
			)
		}
	}()
	defer errors.Recover(&err, op)

	n := len(X)
	if n != len(y) {
		return errors.NewInvalidInputErrorf(op, "X has %d rows but y has %d values", n, len(y))
	}
	if n == 0 {
		return errors.NewInvalidInputError(op, "empty training set")
	}
	if err := errors.CheckFinite(op, "y", y); err != nil {
		return err
	}

	// 計画行列 A = [X | 1]。空の行、長さの異なる行、非有限値はここで検出される
	a, err := matrix.DesignMatrix(X)
	if err != nil {
		return err
	}
	d := len(X[0])

	logger.Debug("fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.SolverKey, r.cfg.solver.String(),
		log.ToleranceKey, r.cfg.tolerance,
	)

	theta, err := r.solve(a, mat.NewVecDense(n, y))
	if err != nil {
		return err
	}

	if err := errors.CheckFinite(op, "theta", theta.RawVector().Data); err != nil {
		return errors.WrapSingular(op, err)
	}
	coefficients := make([]float64, d)
	for i := range coefficients {
		coefficients[i] = theta.AtVec(i)
	}
	intercept := theta.AtVec(d)

	r.mu.Lock()
	r.coefficients = coefficients
	r.intercept = intercept
	r.mu.Unlock()
	r.state.SetFitted(d, n)

	logger.Debug("fit finished",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// solve は設定されたソルバーで θ = [c₀ … c_{d−1}, intercept] を求める
func (r *MultipleRegressor) solve(a *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	policy := matrix.Policy{Tolerance: r.cfg.tolerance}

	switch r.cfg.solver {
	case SolverQR:
		return policy.SolveLeastSquares(a, y)
	case SolverLU, SolverInverse:
	default:
		return nil, errors.NewInvalidInputErrorf("MultipleRegressor.Fit", "unknown solver %d", int(r.cfg.solver))
	}

	at := matrix.Transpose(a)
	ata, err := matrix.Multiply(at, a)
	if err != nil {
		return nil, err
	}
	var aty mat.VecDense
	aty.MulVec(at, y)

	if r.cfg.solver == SolverLU {
		return policy.SolveLinearSystem(ata, &aty)
	}

	inv, err := policy.Invert(ata)
	if err != nil {
		return nil, err
	}
	var theta mat.VecDense
	theta.MulVec(inv, &aty)
	return &theta, nil
}

// Score は決定係数 R² を返す
func (r *MultipleRegressor) Score(X [][]float64, y []float64) (float64, error) {
	if len(X) != len(y) {
		return 0, errors.NewDimensionError("MultipleRegressor.Score", len(X), len(y), 0)
	}
	preds, err := r.PredictBatch(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, preds)
}

// ExportWeights はモデルの重みをエクスポートする
func (r *MultipleRegressor) ExportWeights() (*model.Weights, error) {
	coefficients, intercept := r.Params()
	if len(coefficients) == 0 {
		return nil, errors.NewInvalidInputError("MultipleRegressor.ExportWeights",
			"dimension is not established; call Fit, SetParams or use WithDimension")
	}
	state := r.state.GetState()
	return &model.Weights{
		ModelType:    model.ModelTypeMultiple,
		Version:      model.WeightsVersion,
		Coefficients: coefficients,
		Intercept:    intercept,
		IsFitted:     state.Fitted,
		Metadata: map[string]interface{}{
			"n_features": len(coefficients),
			"n_samples":  state.NSamples,
			"solver":     r.cfg.solver.String(),
		},
	}, nil
}

// ImportWeights は重みをインポートする。係数の長さが新しい次元になる
func (r *MultipleRegressor) ImportWeights(w *model.Weights) error {
	const op = "MultipleRegressor.ImportWeights"
	if w == nil {
		return errors.NewInvalidInputError(op, "weights are nil")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != model.ModelTypeMultiple {
		return errors.NewInvalidInputErrorf(op, "model type %q does not match %q", w.ModelType, model.ModelTypeMultiple)
	}

	r.SetParams(w.Coefficients, w.Intercept)
	if w.IsFitted {
		r.state.SetState(model.ModelState{Fitted: true, NFeatures: len(w.Coefficients)})
	} else {
		r.state.Reset()
	}
	return nil
}

var (
	_ model.LinearModel         = (*SimpleRegressor)(nil)
	_ model.LinearModel         = (*MultipleRegressor)(nil)
	_ model.Scorer[[]float64]   = (*SimpleRegressor)(nil)
	_ model.Scorer[[][]float64] = (*MultipleRegressor)(nil)
	_ model.WeightsExporter     = (*SimpleRegressor)(nil)
	_ model.WeightsImporter     = (*SimpleRegressor)(nil)
	_ model.WeightsExporter     = (*MultipleRegressor)(nil)
	_ model.WeightsImporter     = (*MultipleRegressor)(nil)
)
