package model

import (
	"io"
	"os"

	"github.com/YuminosukeSato/linreg/pkg/errors"
)

// WriteWeights はWeightsをJSONとしてio.Writerに書き出す
func WriteWeights(w io.Writer, weights *Weights) error {
	data, err := weights.ToJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write weights")
	}
	return nil
}

// ReadWeights はio.ReaderからJSON形式のWeightsを読み込み、検証する
func ReadWeights(r io.Reader) (*Weights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read weights")
	}
	var weights Weights
	if err := weights.FromJSON(data); err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &weights, nil
}

// SaveWeights はモデルの重みをファイルに保存する
//
// 使用例:
//
//	reg := linear.NewMultipleRegressor()
//	// ... モデルの学習 ...
//	err := model.SaveWeights(reg, "weights.json")
func SaveWeights(m WeightsExporter, filename string) error {
	weights, err := m.ExportWeights()
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if err := WriteWeights(file, weights); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "close %s", filename)
}

// LoadWeights はファイルから重みを読み込み、モデルに設定する
func LoadWeights(m WeightsImporter, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	weights, err := ReadWeights(file)
	if err != nil {
		return err
	}
	return m.ImportWeights(weights)
}
