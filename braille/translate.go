package braille

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/avrilemay/braille-newsletter/table"
)

//go:embed tables/fr-g1.tbl
var defaultTable string

// Translator 依据编译后的转写表把普通文本转写为盲文单元。
type Translator struct {
	set *table.Set
}

var (
	defaultOnce       sync.Once
	defaultTranslator *Translator
	defaultErr        error
)

// NewTranslator 使用给定转写表创建 Translator。
func NewTranslator(set *table.Set) (*Translator, error) {
	if set == nil {
		return nil, fmt.Errorf("转写表不能为空")
	}
	return &Translator{set: set}, nil
}

// Default 返回基于内置法语一级盲文表的 Translator。
func Default() (*Translator, error) {
	defaultOnce.Do(func() {
		defaultTranslator, defaultErr = compileSource("embed:fr-g1.tbl", defaultTable)
	})
	return defaultTranslator, defaultErr
}

// Load 读取 path 指定的转写表；path 为空时返回内置表。
func Load(path string) (*Translator, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取转写表 %s 失败: %w", path, err)
	}
	return compileSource(path, string(data))
}

func compileSource(name, src string) (*Translator, error) {
	tbl, err := table.ParseString(name, src)
	if err != nil {
		return nil, err
	}
	set, err := table.Compile(tbl)
	if err != nil {
		return nil, fmt.Errorf("编译转写表 %s 失败: %w", name, err)
	}
	return NewTranslator(set)
}

// Translate 将 text 转写为盲文。
// 空白转为空白单元，换行保留，已是盲文的字符原样输出，
// 大写字母前加大写符，每段连续数字前加数字符；无法转写的字符被丢弃。
func (t *Translator) Translate(text string) string {
	text = norm.NFC.String(text)
	var b strings.Builder
	b.Grow(len(text))
	inNumber := false
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteByte('\n')
			inNumber = false
		case r == '\r':
		case unicode.IsSpace(r):
			b.WriteString(t.set.Space)
			inNumber = false
		case IsCell(r):
			b.WriteRune(r)
			inNumber = false
		case r >= '0' && r <= '9':
			cells, ok := t.set.Digits[r]
			if !ok {
				continue
			}
			if !inNumber {
				b.WriteString(t.set.Numsign)
				inNumber = true
			}
			b.WriteString(cells)
		case unicode.IsControl(r):
		default:
			inNumber = false
			if cells, ok := t.lookup(r); ok {
				b.WriteString(cells)
			}
		}
	}
	return b.String()
}

func (t *Translator) lookup(r rune) (string, bool) {
	if cells, ok := t.letter(r); ok {
		return cells, true
	}
	if cells, ok := t.set.Lookup(r); ok {
		return cells, true
	}
	// 退回到 NFD 分解后的基字母，例如 ñ → n。
	decomposed := []rune(norm.NFD.String(string(r)))
	if len(decomposed) > 1 {
		return t.letter(decomposed[0])
	}
	return "", false
}

func (t *Translator) letter(r rune) (string, bool) {
	if unicode.IsUpper(r) {
		if cells, ok := t.set.Letters[unicode.ToLower(r)]; ok {
			return t.set.Capsign + cells, true
		}
		return "", false
	}
	cells, ok := t.set.Letters[r]
	return cells, ok
}
