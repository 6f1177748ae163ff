// Package braille 处理盲文单元字符：分词、拼接以及基于转写表的文本转写。
package braille

import "strings"

// Separator 是盲文空白单元 U+2800，在盲文文本中代替普通空格作为词间分隔符。
const Separator = '⠀'

// Indent 是每个段落首行前的三格空白缩进。
const Indent = "⠀⠀⠀"

const separatorStr = string(Separator)

// Segment 按 Separator 切分盲文文本，丢弃长度为零的词。
// 连续分隔符、首尾分隔符都不会产生空词。
func Segment(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, separatorStr)
	words := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, p)
	}
	if len(words) == 0 {
		return nil
	}
	return words
}

// Join 用单个 Separator 连接词序列，是 Segment 的逆操作。
func Join(words []string) string {
	return strings.Join(words, separatorStr)
}

// TrimTrailing 去掉字符串末尾的分隔符与普通空白。
func TrimTrailing(s string) string {
	return strings.TrimRight(s, separatorStr+" \t")
}

// IsCell 判断 r 是否位于 Unicode 盲文字符块（U+2800–U+28FF）。
func IsCell(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}
