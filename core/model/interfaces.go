package model

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	// Coefficients は学習された係数を返す
	Coefficients() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
	// IsFitted はFitが一度でも成功したかを返す
	IsFitted() bool
}

// Scorer は決定係数を計算できるモデルのインターフェース
type Scorer[X any] interface {
	// Score は予測の決定係数（R²）を返す
	Score(x X, y []float64) (float64, error)
}

// WeightsExporter は重みを書き出せるモデルのインターフェース
type WeightsExporter interface {
	ExportWeights() (*Weights, error)
}

// WeightsImporter は重みを読み込めるモデルのインターフェース
type WeightsImporter interface {
	ImportWeights(w *Weights) error
}
