package layout

import "github.com/avrilemay/braille-newsletter/braille"

// Pack 使用贪心算法把盲文词序列装入宽度不超过 budget 的行。
//
// 首行以三格空白缩进开头，缩进参与测量。每次都测量完整候选行（已有内容 + 新词）。
// 只有当前行已含至少一个词时才会因超宽换行，单个超宽的词独占一行，不截断也不拆分。
// 输出行去掉了末尾分隔符。
func Pack(words []string, budget float64, measure MeasureFunc) ([]string, error) {
	if err := checkBudget(budget, measure); err != nil {
		return nil, err
	}
	return pack(words, budget, measure, braille.Indent), nil
}

func pack(words []string, budget float64, measure MeasureFunc, prefix string) []string {
	var lines []string
	current := prefix
	populated := false
	for _, word := range words {
		if word == "" {
			continue
		}
		candidate := current + word
		if !populated || measure(candidate) <= budget {
			current = candidate + string(braille.Separator)
			populated = true
			continue
		}
		lines = append(lines, braille.TrimTrailing(current))
		current = word + string(braille.Separator)
	}
	if populated {
		lines = append(lines, braille.TrimTrailing(current))
	}
	return lines
}
