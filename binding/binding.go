// Package binding 在文章头部模板中展开 ${field} 占位符。
package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将 text 中的 ${name} 替换为 fields 中的同名值。
// 字段不存在时保留原占位符。
func Interpolate(text string, fields map[string]string) string {
	return InterpolateFunc(text, fields, nil)
}

// InterpolateFunc 与 Interpolate 相同，但每个替换值先经过 transform（例如盲文转写）。
// 模板本身的字面文本不经过 transform，替换结果也不会被再次展开。
func InterpolateFunc(text string, fields map[string]string, transform func(string) string) string {
	if len(fields) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := strings.TrimSpace(groups[1])
		val, ok := fields[name]
		if !ok {
			return match
		}
		if transform != nil {
			return transform(val)
		}
		return val
	})
}

// Names 返回模板中出现的占位符名称，按出现顺序且不去重。
func Names(text string) []string {
	var names []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, strings.TrimSpace(groups[1]))
	}
	return names
}
