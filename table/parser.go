// Package table 解析盲文转写表。
//
// 转写表为逐行的文本格式，每行一条规则：操作码、可选字符、点位描述。
//
//	# 注释
//	space    0
//	capsign  46
//	numsign  6
//	letter   a 1
//	digit    1 16
//	punct    , 2
//	sign     € 15-1345
//
// 点位描述由 1–8 的数字组成（0 表示空白单元），多个单元之间用 '-' 连接。
// 字符字段支持 \xHH 与 \uHHHH 转义，用于表示 '#' 等特殊字符。
package table

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	tableLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Word", Pattern: `[^\s]+`},
	})

	tableParser = participle.MustBuild[Table](
		participle.Lexer(tableLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Table 是转写表文件的根节点。
type Table struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Rules []*Rule        `parser:"Newline* ( @@ Newline* )*"`
}

// Rule 是一行规则：操作码加上若干参数。
type Rule struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Opcode string         `parser:"@Word"`
	Args   []string       `parser:"@Word*"`
}

// Parse 从 io.Reader 解析转写表，name 用于错误信息中的文件名。
func Parse(name string, r io.Reader) (*Table, error) {
	t, err := tableParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("解析转写表失败: %w", err)
	}
	return t, nil
}

// ParseString 从字符串解析转写表。
func ParseString(name, input string) (*Table, error) {
	t, err := tableParser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("解析转写表失败: %w", err)
	}
	return t, nil
}
