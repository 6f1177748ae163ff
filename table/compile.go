package table

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Opcode 列表。
const (
	OpSpace   = "space"
	OpCapsign = "capsign"
	OpNumsign = "numsign"
	OpLetter  = "letter"
	OpDigit   = "digit"
	OpPunct   = "punct"
	OpSign    = "sign"
)

const blankCell = 0x2800

// Set 是编译后的转写表，值均为盲文单元字符串。
type Set struct {
	Space   string
	Capsign string
	Numsign string
	Letters map[rune]string
	Digits  map[rune]string
	Signs   map[rune]string // punct 与 sign 合并在一起
}

// Lookup 返回字母或符号对应的盲文单元；数字需走 Digits。
func (s *Set) Lookup(r rune) (string, bool) {
	if cells, ok := s.Letters[r]; ok {
		return cells, true
	}
	cells, ok := s.Signs[r]
	return cells, ok
}

// Compile 校验规则并生成 Set。后出现的规则覆盖先前同字符的规则。
func Compile(t *Table) (*Set, error) {
	if t == nil {
		return nil, fmt.Errorf("转写表为空")
	}
	set := &Set{
		Letters: map[rune]string{},
		Digits:  map[rune]string{},
		Signs:   map[rune]string{},
	}
	for _, rule := range t.Rules {
		if err := set.apply(rule); err != nil {
			return nil, fmt.Errorf("%s: %w", rule.Pos, err)
		}
	}
	if set.Space == "" {
		set.Space = string(rune(blankCell))
	}
	return set, nil
}

func (s *Set) apply(rule *Rule) error {
	switch rule.Opcode {
	case OpSpace, OpCapsign, OpNumsign:
		if len(rule.Args) != 1 {
			return fmt.Errorf("%s 需要 1 个参数（点位），实际 %d 个", rule.Opcode, len(rule.Args))
		}
		cells, err := ParseDots(rule.Args[0])
		if err != nil {
			return err
		}
		switch rule.Opcode {
		case OpSpace:
			s.Space = cells
		case OpCapsign:
			s.Capsign = cells
		case OpNumsign:
			s.Numsign = cells
		}
		return nil
	case OpLetter, OpDigit, OpPunct, OpSign:
		if len(rule.Args) != 2 {
			return fmt.Errorf("%s 需要 2 个参数（字符 点位），实际 %d 个", rule.Opcode, len(rule.Args))
		}
		ch, err := parseChar(rule.Args[0])
		if err != nil {
			return err
		}
		cells, err := ParseDots(rule.Args[1])
		if err != nil {
			return err
		}
		switch rule.Opcode {
		case OpLetter:
			s.Letters[ch] = cells
		case OpDigit:
			if ch < '0' || ch > '9' {
				return fmt.Errorf("digit 规则只接受 0-9，得到 %q", ch)
			}
			s.Digits[ch] = cells
		default:
			s.Signs[ch] = cells
		}
		return nil
	default:
		return fmt.Errorf("未知操作码 %q", rule.Opcode)
	}
}

// ParseDots 将 "1245" 或 "46-1" 形式的点位描述转换为盲文单元字符串。
func ParseDots(spec string) (string, error) {
	if spec == "" {
		return "", fmt.Errorf("点位为空")
	}
	var b strings.Builder
	for _, cell := range strings.Split(spec, "-") {
		if cell == "" {
			return "", fmt.Errorf("点位 %q 中存在空单元", spec)
		}
		r := rune(blankCell)
		if cell != "0" {
			for _, d := range cell {
				if d < '1' || d > '8' {
					return "", fmt.Errorf("点位 %q 含非法数字 %q", spec, d)
				}
				r |= 1 << (d - '1')
			}
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func parseChar(arg string) (rune, error) {
	s := arg
	if strings.HasPrefix(arg, `\`) {
		unq, err := strconv.Unquote(`"` + arg + `"`)
		if err != nil {
			return 0, fmt.Errorf("无法解析转义字符 %q: %w", arg, err)
		}
		s = unq
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("字符字段 %q 必须恰好是一个字符", arg)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
