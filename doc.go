// Package linreg estimates linear relationships between numeric predictors
// and a numeric response by ordinary least squares.
//
// # Models
//
// linear.SimpleRegressor fits y = slope·x + intercept from a single predictor
// using the closed-form estimator. linear.MultipleRegressor fits
// y = Σ cᵢ·xᵢ + intercept by solving the normal equations
// θ = (AᵗA)⁻¹Aᵗy, where A is the design matrix with a trailing column of ones.
//
//	r := linear.NewMultipleRegressor()
//	if err := r.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := r.Predict([]float64{1.5, 2.0})
//
// Both models start from random parameters drawn uniformly from [-1, 1)
// (see core/random) and can be set directly with SetParams.
//
// # Errors
//
// Every failure is one of four kinds defined in pkg/errors and can be tested
// with errors.Is against a sentinel:
//
//   - ErrInvalidInput: empty training set, length mismatch or non-finite values
//   - ErrDimensionMismatch: a row or input vector of the wrong length
//   - ErrDegenerateFit: the single predictor has no variance
//   - ErrSingularSystem: the normal equations are singular within tolerance
//
// A failed Fit leaves the model unchanged.
//
// # Packages
//
//   - linear: SimpleRegressor, MultipleRegressor and their options
//   - core/matrix: design matrix, transpose, multiply, invert and solve
//   - core/random: pluggable uniform initializer
//   - core/model: fitted state, shared interfaces and weight persistence
//   - core/parallel: row-chunked parallel helper
//   - metrics: MSE, RMSE, MAE, R² and related scores
//   - plot: scatter and fitted line rendering
//   - pkg/errors, pkg/log: structured errors and zerolog based logging
package linreg
