package linear

import (
	"github.com/YuminosukeSato/linreg/core/matrix"
	"github.com/YuminosukeSato/linreg/core/random"
	"github.com/YuminosukeSato/linreg/pkg/log"
)

// Solver selects how MultipleRegressor solves the least squares problem.
type Solver int

const (
	// SolverLU solves the normal equations AᵗA·θ = Aᵗy by LU decomposition.
	SolverLU Solver = iota
	// SolverInverse explicitly inverts AᵗA and multiplies by Aᵗy.
	SolverInverse
	// SolverQR factorizes the design matrix A itself and never forms AᵗA.
	SolverQR
)

func (s Solver) String() string {
	switch s {
	case SolverLU:
		return "lu"
	case SolverInverse:
		return "inverse"
	case SolverQR:
		return "qr"
	default:
		return "unknown"
	}
}

// config は回帰モデルの設定値
type config struct {
	initializer random.Initializer
	logger      log.Logger
	solver      Solver
	tolerance   float64
	dimension   int
}

func newConfig(opts []Option) config {
	cfg := config{
		initializer: random.Default(),
		solver:      SolverLU,
		tolerance:   matrix.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// log はモデル名を付与したロガーを返す。WithLogger が指定されていなければ
// 呼び出し時点のグローバルロガーを使う
func (c *config) log(modelName string) log.Logger {
	l := c.logger
	if l == nil {
		l = log.GetLoggerWithName("linear")
	}
	return l.With(log.ModelNameKey, modelName)
}

// Option is a function that configures a regressor.
type Option func(*config)

// WithInitializer sets the source of the random initial parameters.
// A nil initializer leaves the process-wide default in place.
func WithInitializer(gen random.Initializer) Option {
	return func(c *config) {
		if gen != nil {
			c.initializer = gen
		}
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithSolver selects the MultipleRegressor solver. SimpleRegressor ignores it.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithTolerance sets the relative pivot tolerance below which the
// normal equations are reported as singular. Non-positive values keep
// matrix.DefaultTolerance. SimpleRegressor ignores it.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.tolerance = tol
		}
	}
}

// WithDimension declares the predictor dimension of a MultipleRegressor up
// front so that its coefficients are randomly initialized at construction.
// SimpleRegressor ignores it.
func WithDimension(d int) Option {
	return func(c *config) {
		if d > 0 {
			c.dimension = d
		}
	}
}
