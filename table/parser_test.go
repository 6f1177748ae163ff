package table_test

import (
	"strings"
	"testing"

	"github.com/avrilemay/braille-newsletter/table"
)

const sampleTable = `
# 小型测试表
space 0
capsign 46
numsign 6

letter a 1
letter b 12
letter é 123456
digit 1 16
punct , 2
punct \x23 3456
sign € 45-15
`

func TestParseTable(t *testing.T) {
	tbl, err := table.ParseString("sample.tbl", sampleTable)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := len(tbl.Rules); got != 10 {
		t.Fatalf("expected 10 rules, got %d", got)
	}
	first := tbl.Rules[0]
	if first.Opcode != "space" || len(first.Args) != 1 || first.Args[0] != "0" {
		t.Fatalf("unexpected first rule: %+v", first)
	}
	if tbl.Rules[3].Pos.Line != 7 {
		t.Fatalf("expected letter a on line 7, got %d", tbl.Rules[3].Pos.Line)
	}
}

func TestCompileTable(t *testing.T) {
	tbl, err := table.Parse("sample.tbl", strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	set, err := table.Compile(tbl)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if set.Space != "⠀" || set.Capsign != "⠨" || set.Numsign != "⠠" {
		t.Fatalf("unexpected specials: %q %q %q", set.Space, set.Capsign, set.Numsign)
	}
	checks := map[rune]string{'a': "⠁", 'b': "⠃", 'é': "⠿", ',': "⠂", '#': "⠼", '€': "⠘⠑"}
	for r, want := range checks {
		got, ok := set.Lookup(r)
		if !ok || got != want {
			t.Fatalf("Lookup(%q) = %q,%v want %q", r, got, ok, want)
		}
	}
	if set.Digits['1'] != "⠡" {
		t.Fatalf("digit 1 = %q", set.Digits['1'])
	}
}

func TestCompileRejectsBadRules(t *testing.T) {
	cases := map[string]string{
		"unknown opcode": "frobnicate a 1\n",
		"bad dot":        "letter a 19\n",
		"missing dots":   "letter a\n",
		"multi rune":     "letter ab 1\n",
		"non digit":      "digit x 16\n",
		"empty cell":     "sign € 45--15\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := table.ParseString("bad.tbl", src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := table.Compile(tbl); err == nil {
				t.Fatalf("expected compile error for %q", src)
			}
		})
	}
}

func TestParseDots(t *testing.T) {
	cases := map[string]string{
		"0":      "⠀",
		"1":      "⠁",
		"123456": "⠿",
		"2356":   "⠶",
		"78":     "⣀",
		"6-1":    "⠠⠁",
	}
	for in, want := range cases {
		got, err := table.ParseDots(in)
		if err != nil {
			t.Fatalf("ParseDots(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDots(%q) = %q, want %q", in, got, want)
		}
	}
}
