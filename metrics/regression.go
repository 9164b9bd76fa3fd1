// Package metrics は回帰モデルの評価指標を提供します。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/linreg/pkg/errors"
)

// validate は観測値と予測値が空でなく同じ長さであることを確認する
func validate(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewInvalidInputError(op, "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := validate("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	// MSE = (1/n) * Σ(yTrue - yPred)²
	d := floats.Distance(yTrue, yPred, 2)
	return d * d / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := validate("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	// MAE = (1/n) * Σ|yTrue - yPred|
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// R2Score は決定係数（R²）を計算する。
// 予測が完全に一致する場合は 1、yTrue に分散がなく残差がある場合は 0 を返す。
func R2Score(yTrue, yPred []float64) (float64, error) {
	if err := validate("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	yMean := stat.Mean(yTrue, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i, v := range yTrue {
		tss += (v - yMean) * (v - yMean)
		rss += (v - yPred[i]) * (v - yPred[i])
	}

	switch {
	case rss == 0:
		return 1, nil
	case tss == 0:
		return 0, nil
	}
	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する。yTrue が 0 の要素は除外する
func MAPE(yTrue, yPred []float64) (float64, error) {
	if err := validate("MAPE", yTrue, yPred); err != nil {
		return 0, err
	}

	// MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
	var sum float64
	validCount := 0
	for i, v := range yTrue {
		if v != 0 {
			sum += math.Abs(v-yPred[i]) / math.Abs(v)
			validCount++
		}
	}
	if validCount == 0 {
		return 0, errors.NewInvalidInputError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(validCount) * 100, nil
}

// ExplainedVarianceScore は説明分散スコアを計算する
func ExplainedVarianceScore(yTrue, yPred []float64) (float64, error) {
	if err := validate("ExplainedVarianceScore", yTrue, yPred); err != nil {
		return 0, err
	}

	residuals := floats.SubTo(make([]float64, len(yTrue)), yTrue, yPred)
	varYTrue := stat.PopVariance(yTrue, nil)
	varDiff := stat.PopVariance(residuals, nil)

	if varYTrue == 0 {
		return 0, errors.NewInvalidInputError("ExplainedVarianceScore", "no variance in yTrue")
	}
	// 説明分散スコア = 1 - Var(yTrue - yPred) / Var(yTrue)
	return 1 - varDiff/varYTrue, nil
}
