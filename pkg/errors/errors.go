// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 回帰モデルが返すエラーは4種類の Kind に分類され、呼び出し側は文字列ではなく
// Kind やセンチネルエラーで分岐できます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("linreg-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConditioningWarning is raised when a linear system was solved successfully
// but its condition estimate is large enough that the coefficients may have
// lost several digits of precision.
type ConditioningWarning struct {
	Op        string
	Condition float64
	Threshold float64
}

func (w *ConditioningWarning) Error() string {
	return fmt.Sprintf("%s: system is ill-conditioned (condition number %.3g exceeds %.3g); coefficients may be inaccurate",
		w.Op, w.Condition, w.Threshold)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConditioningWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition", w.Condition).
		Float64("threshold", w.Threshold).
		Str("type", "ConditioningWarning")
}

// NewConditioningWarning は新しいConditioningWarningを作成します。
func NewConditioningWarning(op string, condition, threshold float64) *ConditioningWarning {
	return &ConditioningWarning{Op: op, Condition: condition, Threshold: threshold}
}

// ===========================================================================
//
//	エラー分類
//
// ===========================================================================

// Kind classifies a failure reported by a regressor or the matrix utility.
type Kind int

const (
	// KindUnknown is reported for errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindInvalidInput: predictor/response lengths differ or the training set is empty.
	KindInvalidInput
	// KindDimensionMismatch: a row or input vector disagrees with the established dimension.
	KindDimensionMismatch
	// KindDegenerateFit: the single predictor has zero variance.
	KindDegenerateFit
	// KindSingularSystem: the normal-equation matrix is not invertible within tolerance.
	KindSingularSystem
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindDimensionMismatch:
		return "DimensionMismatch"
	case KindDegenerateFit:
		return "DegenerateFit"
	case KindSingularSystem:
		return "SingularSystem"
	default:
		return "Unknown"
	}
}

// Code returns the upper snake case code used for the error.code log attribute.
func (k Kind) Code() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindDimensionMismatch:
		return "DIMENSION_MISMATCH"
	case KindDegenerateFit:
		return "DEGENERATE_FIT"
	case KindSingularSystem:
		return "SINGULAR_SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrInvalidInput は不正な訓練データの場合のエラーです。
	ErrInvalidInput = New("invalid input")

	// ErrDimensionMismatch は次元が一致しない場合のエラーです。
	ErrDimensionMismatch = New("dimension mismatch")

	// ErrDegenerateFit は説明変数の分散がゼロの場合のエラーです。
	ErrDegenerateFit = New("degenerate fit")

	// ErrSingularSystem は正規方程式が特異または悪条件の場合のエラーです。
	ErrSingularSystem = New("singular system")
)

// KindOf reports the taxonomy kind of err, looking through any wrapping.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case Is(err, ErrInvalidInput):
		return KindInvalidInput
	case Is(err, ErrDimensionMismatch):
		return KindDimensionMismatch
	case Is(err, ErrDegenerateFit):
		return KindDegenerateFit
	case Is(err, ErrSingularSystem):
		return KindSingularSystem
	default:
		return KindUnknown
	}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// InvalidInputError は訓練データの長さが一致しない、または空の場合のエラーです。
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("linreg: %s: invalid input: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "InvalidInputError")
}

// NewInvalidInputError は新しいInvalidInputErrorを作成し、スタックトレースを付与します。
func NewInvalidInputError(op, reason string) error {
	return errors.WithStack(&InvalidInputError{Op: op, Reason: reason})
}

// NewInvalidInputErrorf is NewInvalidInputError with a formatted reason.
func NewInvalidInputErrorf(op, format string, args ...interface{}) error {
	return NewInvalidInputError(op, fmt.Sprintf(format, args...))
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("linreg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// DegenerateFitError は単回帰で説明変数の分散がゼロのため傾きが定まらない場合のエラーです。
type DegenerateFitError struct {
	Op          string
	Reason      string
	Denominator float64
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("linreg: %s: degenerate fit: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrDegenerateFit.
func (e *DegenerateFitError) Is(target error) bool {
	return target == ErrDegenerateFit
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateFitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Float64("denominator", e.Denominator).
		Str("type", "DegenerateFitError")
}

// NewDegenerateFitError は新しいDegenerateFitErrorを作成し、スタックトレースを付与します。
func NewDegenerateFitError(op, reason string, denominator float64) error {
	return errors.WithStack(&DegenerateFitError{Op: op, Reason: reason, Denominator: denominator})
}

// SingularSystemError は連立方程式の係数行列が特異、または許容誤差内で特異とみなされる場合のエラーです。
// Index はしきい値を下回ったピボットの位置で、ピボット以外の理由では -1 になります。
type SingularSystemError struct {
	Op        string
	Index     int
	Pivot     float64
	Threshold float64
	Err       error
}

func (e *SingularSystemError) Error() string {
	msg := fmt.Sprintf("linreg: %s: singular system", e.Op)
	if e.Index >= 0 {
		msg += fmt.Sprintf(": pivot %d is %.3g (threshold %.3g)", e.Index, e.Pivot, e.Threshold)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is reports whether target is ErrSingularSystem.
func (e *SingularSystemError) Is(target error) bool {
	return target == ErrSingularSystem
}

func (e *SingularSystemError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SingularSystemError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("pivot_index", e.Index).
		Float64("pivot", e.Pivot).
		Float64("threshold", e.Threshold).
		Str("type", "SingularSystemError")
}

// NewSingularSystemError は新しいSingularSystemErrorを作成し、スタックトレースを付与します。
func NewSingularSystemError(op string, index int, pivot, threshold float64) error {
	return errors.WithStack(&SingularSystemError{Op: op, Index: index, Pivot: pivot, Threshold: threshold})
}

// WrapSingular reports err, typically a gonum mat.Condition, as a SingularSystemError.
func WrapSingular(op string, err error) error {
	return errors.WithStack(&SingularSystemError{Op: op, Index: -1, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}
