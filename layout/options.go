package layout

import (
	"fmt"
	"strings"
)

// MeasureFunc 返回一行候选文本在目标字体下的渲染宽度，单位与宽度预算一致。
type MeasureFunc func(s string) float64

// Typesetter 由渲染后端实现：提供文本测量以及后端自身的自动折行。
// fontSize 与返回的宽度均为 mm。
type Typesetter interface {
	Measurer(font FontResource, fontSize float64) (MeasureFunc, error)
	WrapLines(content string, width float64, font FontResource, fontSize float64) ([]string, error)
}

// Mode 是输出模式。
type Mode string

const (
	// ModePlain 不做折行，交给渲染后端自动换行。
	ModePlain Mode = "plain"
	// ModeBraille 使用分词与贪心装行。
	ModeBraille Mode = "braille"
)

// ParseMode 解析输出模式名称，大小写不敏感。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "french", "français", "francais":
		return ModePlain, nil
	case "braille":
		return ModeBraille, nil
	default:
		return "", &ConfigError{Field: "mode", Reason: fmt.Sprintf("未知输出模式 %q（可选 plain/braille）", s)}
	}
}

// PageOptions 配置分页阶段：页面几何、字体与行高，以及 plain 模式所需的排版后端。
type PageOptions struct {
	Width        float64
	Height       float64
	Margin       Margin
	Mode         Mode
	Font         FontResource
	FontSize     float64
	LineHeight   float64
	ParagraphGap float64
	Color        Color
	Typesetter   Typesetter
	Meta         DocumentMeta
}

// ContentWidth 返回去掉左右边距后的可用宽度。
func (o PageOptions) ContentWidth() float64 {
	return o.Width - o.Margin.Left - o.Margin.Right
}
