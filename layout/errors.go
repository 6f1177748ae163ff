package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration 是所有配置错误的哨兵值，可用 errors.Is 判断。
var ErrConfiguration = errors.New("layout: 配置错误")

// ConfigError 描述一次致命的配置错误，出现时不产生任何部分输出。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("layout: 配置错误 %s: %s", e.Field, e.Reason)
}

// Is 让 errors.Is(err, ErrConfiguration) 成立。
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func checkBudget(budget float64, measure MeasureFunc) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		return &ConfigError{Field: "budget", Reason: fmt.Sprintf("宽度预算必须为正数，得到 %g", budget)}
	}
	if measure == nil {
		return &ConfigError{Field: "measure", Reason: "缺少文本测量函数"}
	}
	return nil
}
