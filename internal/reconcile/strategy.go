package reconcile

import (
	"errors"
	"fmt"
)

// ExtractionFailure 某个策略未能得到有效结果
type ExtractionFailure struct {
	Strategy string
	Reason   string
	Err      error
}

func (e *ExtractionFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Strategy, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Strategy, e.Reason)
}

func (e *ExtractionFailure) Unwrap() error { return e.Err }

// ErrNoMatch 缓冲区里没有策略要找的片段
var ErrNoMatch = errors.New("no candidate found")

// Strategy 从缓冲区提取 T 的一种方法，必须是纯函数
type Strategy[T any] struct {
	Name    string
	Extract func(buf string) (T, error)
}

// FirstValid 按顺序尝试策略，返回第一个通过 valid 的结果及其策略名。
// 全部失败时返回各策略失败原因的组合。
func FirstValid[T any](buf string, strategies []Strategy[T], valid func(T) bool) (T, string, error) {
	var zero T
	var errs []error
	for _, s := range strategies {
		v, err := s.Extract(buf)
		if err != nil {
			errs = append(errs, asFailure(s.Name, err))
			continue
		}
		if !valid(v) {
			errs = append(errs, &ExtractionFailure{Strategy: s.Name, Reason: "result failed validation"})
			continue
		}
		return v, s.Name, nil
	}
	return zero, "", errors.Join(errs...)
}

func asFailure(name string, err error) error {
	var f *ExtractionFailure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, ErrNoMatch) {
		return &ExtractionFailure{Strategy: name, Reason: "no match", Err: err}
	}
	return &ExtractionFailure{Strategy: name, Reason: "parse failed", Err: err}
}
