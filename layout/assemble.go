package layout

import (
	"strings"
	"unicode"

	"github.com/avrilemay/braille-newsletter/braille"
)

// ParagraphDelimiter 是段落分隔标记（连续两个换行）。
const ParagraphDelimiter = "\n\n"

// Assemble 按段落分隔标记切分 text，每段生成一个 Paragraph，顺序不变。
//
// braille 模式下每段先按单个换行切成硬行，再逐行分词、装行；只有第一个含词的硬行带缩进，
// 含词段落中的空硬行保留为空行，不含任何词的段落为空段落。
// plain 模式不折行，整段原样作为一行，由渲染后端自动换行。
// 连续分隔标记产生的空段落同样保留，是否跳过由分页阶段决定。
func Assemble(text string, mode Mode, budget float64, measure MeasureFunc) ([]Paragraph, error) {
	switch mode {
	case ModePlain:
	case ModeBraille:
		if err := checkBudget(budget, measure); err != nil {
			return nil, err
		}
	default:
		return nil, &ConfigError{Field: "mode", Reason: "未知输出模式 " + string(mode)}
	}

	chunks := strings.Split(Sanitize(text), ParagraphDelimiter)
	out := make([]Paragraph, 0, len(chunks))
	for _, chunk := range chunks {
		if mode == ModePlain {
			out = append(out, Paragraph{Lines: []string{chunk}})
			continue
		}
		out = append(out, Paragraph{Lines: packChunk(chunk, budget, measure)})
	}
	return out, nil
}

func packChunk(chunk string, budget float64, measure MeasureFunc) []string {
	var lines []string
	prefix := braille.Indent
	hasWords := false
	for _, hard := range strings.Split(chunk, "\n") {
		words := braille.Segment(hard)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, pack(words, budget, measure, prefix)...)
		prefix = ""
		hasWords = true
	}
	if !hasWords {
		return nil
	}
	return lines
}

// Sanitize 统一换行符（CRLF/CR → LF），制表符转为空格，并移除其余控制字符。
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\r':
			return '\n'
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
