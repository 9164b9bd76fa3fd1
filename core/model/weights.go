package model

import (
	"encoding/json"
	"math"

	"github.com/YuminosukeSato/linreg/pkg/errors"
)

// WeightsVersion is written by ExportWeights and accepted by ImportWeights.
const WeightsVersion = "1.0"

// モデル種別
const (
	ModelTypeSimple   = "SimpleRegressor"
	ModelTypeMultiple = "MultipleRegressor"
)

// Weights はモデルの重みを表す構造体（シリアライゼーション用）
type Weights struct {
	// ModelType はモデルの種類（SimpleRegressor, MultipleRegressor）
	ModelType string `json:"model_type"`

	// Version は互換性チェック用のバージョン
	Version string `json:"version"`

	// Coefficients は重み係数。SimpleRegressor では [slope]
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`

	// Metadata は追加のメタデータ（学習時のサンプル数等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToJSON はWeightsをJSON形式にシリアライズ
func (w *Weights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal weights")
	}
	return data, nil
}

// FromJSON はJSON形式からWeightsをデシリアライズ
func (w *Weights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, w); err != nil {
		return errors.NewInvalidInputErrorf("model.Weights.FromJSON", "malformed weights: %v", err)
	}
	return nil
}

// Validate はWeightsの妥当性を検証
func (w *Weights) Validate() error {
	const op = "model.Weights.Validate"
	if w.ModelType == "" {
		return errors.NewInvalidInputError(op, "model_type is required")
	}
	if w.Version != WeightsVersion {
		return errors.NewInvalidInputErrorf(op, "unsupported version %q", w.Version)
	}
	if len(w.Coefficients) == 0 {
		return errors.NewInvalidInputError(op, "coefficients are required")
	}
	if err := errors.CheckFinite(op, "coefficients", w.Coefficients); err != nil {
		return err
	}
	if math.IsNaN(w.Intercept) || math.IsInf(w.Intercept, 0) {
		return errors.NewInvalidInputError(op, "intercept is not finite")
	}
	return nil
}

// Clone はWeightsのディープコピーを作成
func (w *Weights) Clone() *Weights {
	clone := &Weights{
		ModelType:    w.ModelType,
		Version:      w.Version,
		Intercept:    w.Intercept,
		IsFitted:     w.IsFitted,
		Coefficients: make([]float64, len(w.Coefficients)),
	}
	copy(clone.Coefficients, w.Coefficients)

	if w.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(w.Metadata))
		for k, v := range w.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
