// Package matrix は正規方程式を解くための密行列演算を提供します。
//
// 行列は gonum の *mat.Dense で表現し、逆行列と連立一次方程式は部分ピボット付き
// LU 分解、最小二乗は Householder QR 分解で解きます。分解の前に行列をスケーリング
// し（LU は対角を 1 に、QR は各列のノルムを 1 に揃える）、スケーリング後の
// ピボットが Tolerance·‖S‖∞ 以下になった場合は SingularSystem エラーを返します。
package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linreg/core/parallel"
	"github.com/YuminosukeSato/linreg/pkg/errors"
)

const (
	// DefaultTolerance is the relative pivot tolerance used when none is configured.
	DefaultTolerance = 1e-10

	// ConditionWarnThreshold is the condition estimate above which a successful
	// solve emits a ConditioningWarning.
	ConditionWarnThreshold = 1e8

	// parallelThreshold 以下の行数では計画行列を逐次的に構築する
	parallelThreshold = 1000
)

// Policy holds the singularity tolerance applied by the factorization based
// operations. The zero value uses DefaultTolerance.
type Policy struct {
	Tolerance float64
}

// DefaultPolicy is the policy used by the package level functions.
var DefaultPolicy = Policy{Tolerance: DefaultTolerance}

func (p Policy) tolerance() float64 {
	if p.Tolerance <= 0 || math.IsNaN(p.Tolerance) {
		return DefaultTolerance
	}
	return p.Tolerance
}

// New builds a dense matrix from row slices. Every row must have the same,
// non-zero length and every value must be finite.
func New(rows [][]float64) (*mat.Dense, error) {
	const op = "matrix.New"
	if len(rows) == 0 {
		return nil, errors.NewInvalidInputError(op, "no rows")
	}
	c := len(rows[0])
	if c == 0 {
		return nil, errors.NewInvalidInputError(op, "rows have no columns")
	}
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, errors.NewDimensionError(op, c, len(row), 1)
		}
		if err := errors.CheckFinite(op, "row", row); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}

// Identity returns the n×n identity matrix. It panics if n is not positive.
func Identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// Column returns v as an n×1 matrix. The values are copied.
func Column(v []float64) (*mat.Dense, error) {
	if len(v) == 0 {
		return nil, errors.NewInvalidInputError("matrix.Column", "empty vector")
	}
	data := make([]float64, len(v))
	copy(data, v)
	return mat.NewDense(len(v), 1, data), nil
}

// DesignMatrix returns the n×(d+1) matrix whose row i is [X[i][0] … X[i][d-1], 1].
// Rows are copied in parallel for large inputs.
func DesignMatrix(X [][]float64) (*mat.Dense, error) {
	const op = "matrix.DesignMatrix"
	n := len(X)
	if n == 0 {
		return nil, errors.NewInvalidInputError(op, "no rows")
	}
	d := len(X[0])
	if d == 0 {
		return nil, errors.NewInvalidInputError(op, "rows have no predictors")
	}
	for i := 1; i < n; i++ {
		if len(X[i]) != d {
			return nil, errors.NewDimensionError(op, d, len(X[i]), 1)
		}
	}
	if err := errors.CheckFiniteRows(op, "X", X); err != nil {
		return nil, err
	}

	a := mat.NewDense(n, d+1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := a.RawRowView(i)
			copy(row, X[i])
			row[d] = 1
		}
	})
	return a, nil
}

// Transpose returns a newly allocated transpose of a.
func Transpose(a mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(a.T())
}

// Multiply returns the product a·b. The column count of a must equal the row
// count of b.
func Multiply(a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		return nil, errors.NewDimensionError("matrix.Multiply", ac, br, 0)
	}
	out := mat.NewDense(ar, bc, nil)
	out.Mul(a, b)
	return out, nil
}

// Invert returns the inverse of the square matrix a using DefaultPolicy.
func Invert(a mat.Matrix) (*mat.Dense, error) {
	return DefaultPolicy.Invert(a)
}

// SolveLinearSystem solves a·x = b using DefaultPolicy.
func SolveLinearSystem(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	return DefaultPolicy.SolveLinearSystem(a, b)
}

// SolveLeastSquares minimizes ‖a·x − b‖₂ using DefaultPolicy.
func SolveLeastSquares(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	return DefaultPolicy.SolveLeastSquares(a, b)
}

// Invert returns the inverse of the square matrix a, computed from the LU
// factorization of its diagonally scaled form.
func (p Policy) Invert(a mat.Matrix) (*mat.Dense, error) {
	const op = "matrix.Invert"
	r, c := a.Dims()
	if r != c {
		return nil, errors.NewDimensionError(op, r, c, 1)
	}

	s, scale := symmetricScale(a)
	lu, err := p.factorizeLU(op, s)
	if err != nil {
		return nil, err
	}

	inv := mat.NewDense(r, r, nil)
	if err := lu.SolveTo(inv, false, Identity(r)); err != nil {
		return nil, errors.WrapSingular(op, err)
	}
	// inv(a) = D⁻¹·inv(S)·D⁻¹
	for i := 0; i < r; i++ {
		row := inv.RawRowView(i)
		for j := range row {
			row[j] *= scale[i] * scale[j]
		}
	}
	warnIfIllConditioned(op, lu.Cond())
	return inv, nil
}

// SolveLinearSystem solves the square system a·x = b by LU decomposition of
// the diagonally scaled system.
func (p Policy) SolveLinearSystem(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	const op = "matrix.SolveLinearSystem"
	r, c := a.Dims()
	if r != c {
		return nil, errors.NewDimensionError(op, r, c, 1)
	}
	if b.Len() != r {
		return nil, errors.NewDimensionError(op, r, b.Len(), 0)
	}

	s, scale := symmetricScale(a)
	lu, err := p.factorizeLU(op, s)
	if err != nil {
		return nil, err
	}

	bs := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		bs.SetVec(i, b.AtVec(i)*scale[i])
	}
	x := mat.NewVecDense(r, nil)
	if err := lu.SolveVecTo(x, false, bs); err != nil {
		return nil, errors.WrapSingular(op, err)
	}
	unscale(x, scale)
	warnIfIllConditioned(op, lu.Cond())
	return x, nil
}

// SolveLeastSquares returns the x minimizing ‖a·x − b‖₂ for an r×c matrix a
// with r ≥ c, using Householder QR on the column normalized matrix. a must
// have full column rank.
func (p Policy) SolveLeastSquares(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	const op = "matrix.SolveLeastSquares"
	r, c := a.Dims()
	if b.Len() != r {
		return nil, errors.NewDimensionError(op, r, b.Len(), 0)
	}
	if r < c {
		return nil, errors.WrapSingular(op,
			errors.Newf("underdetermined system: %d rows for %d unknowns", r, c))
	}

	as, scale := columnScale(a)

	var qr mat.QR
	qr.Factorize(as)

	var rm mat.Dense
	qr.RTo(&rm)
	threshold := p.tolerance() * mat.Norm(as, math.Inf(1))
	for i := 0; i < c; i++ {
		if d := rm.At(i, i); math.Abs(d) <= threshold || math.IsNaN(d) {
			return nil, errors.NewSingularSystemError(op, i, d, threshold)
		}
	}

	x := mat.NewVecDense(c, nil)
	if err := qr.SolveVecTo(x, false, b); err != nil {
		return nil, errors.WrapSingular(op, err)
	}
	unscale(x, scale)
	warnIfIllConditioned(op, qr.Cond())
	return x, nil
}

// factorizeLU factorizes a and rejects it when a diagonal entry of U falls at
// or below tolerance·‖a‖∞.
func (p Policy) factorizeLU(op string, a mat.Matrix) (*mat.LU, error) {
	var lu mat.LU
	lu.Factorize(a)

	var u mat.TriDense
	lu.UTo(&u)
	n, _ := u.Dims()
	threshold := p.tolerance() * mat.Norm(a, math.Inf(1))
	for i := 0; i < n; i++ {
		if pivot := u.At(i, i); math.Abs(pivot) <= threshold || math.IsNaN(pivot) {
			return nil, errors.NewSingularSystemError(op, i, pivot, threshold)
		}
	}
	return &lu, nil
}

// symmetricScale returns S = D⁻¹·a·D⁻¹ with D = sqrt(|diag(a)|) together with
// the entries of D⁻¹. A zero diagonal entry keeps a unit scale.
func symmetricScale(a mat.Matrix) (*mat.Dense, []float64) {
	s := mat.DenseCopyOf(a)
	n, _ := s.Dims()
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = reciprocal(math.Sqrt(math.Abs(s.At(i, i))))
	}
	for i := 0; i < n; i++ {
		row := s.RawRowView(i)
		for j := range row {
			row[j] *= scale[i] * scale[j]
		}
	}
	return s, scale
}

// columnScale returns a·D⁻¹ where D holds the Euclidean norms of the columns
// of a, together with the entries of D⁻¹. A zero column keeps a unit scale.
func columnScale(a mat.Matrix) (*mat.Dense, []float64) {
	s := mat.DenseCopyOf(a)
	_, c := s.Dims()
	scale := make([]float64, c)
	for j := range scale {
		scale[j] = reciprocal(mat.Norm(s.ColView(j), 2))
	}
	r, _ := s.Dims()
	for i := 0; i < r; i++ {
		row := s.RawRowView(i)
		for j := range row {
			row[j] *= scale[j]
		}
	}
	return s, scale
}

func reciprocal(v float64) float64 {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 1
	}
	return 1 / v
}

// unscale は x_i ← x_i·scale_i を適用します
func unscale(x *mat.VecDense, scale []float64) {
	for i, s := range scale {
		x.SetVec(i, x.AtVec(i)*s)
	}
}

func warnIfIllConditioned(op string, cond float64) {
	if cond > ConditionWarnThreshold {
		errors.Warn(errors.NewConditioningWarning(op, cond, ConditionWarnThreshold))
	}
}
