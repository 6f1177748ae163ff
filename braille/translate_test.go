package braille

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Translator {
	t.Helper()
	tr, err := Default()
	if err != nil {
		t.Fatalf("加载内置转写表失败: %v", err)
	}
	return tr
}

func TestTranslateWords(t *testing.T) {
	tr := mustDefault(t)
	cases := map[string]string{
		"Titre :":   "⠨⠞⠊⠞⠗⠑⠀⠒",
		"publié":    "⠏⠥⠃⠇⠊⠿",
		"a b":       "⠁⠀⠃",
		"l'été":     "⠇⠄⠿⠞⠿",
		"2024":      "⠠⠣⠼⠣⠹",
		"un 1 deux": "⠥⠝⠀⠠⠡⠀⠙⠑⠥⠭",
	}
	for in, want := range cases {
		if got := tr.Translate(in); got != want {
			t.Fatalf("Translate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTranslateKeepsNewlinesAndCells(t *testing.T) {
	tr := mustDefault(t)
	got := tr.Translate("a\n\n⠶⠶ b")
	if got != "⠁\n\n⠶⠶⠀⠃" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTranslateOutputIsBrailleOnly(t *testing.T) {
	tr := mustDefault(t)
	in := "Señor Öztürk a payé 12,50 € à 18h — c'est « fini » !\r\n\tOK\x07"
	out := tr.Translate(in)
	for _, r := range out {
		if r == '\n' {
			continue
		}
		if !IsCell(r) {
			t.Fatalf("non-Braille rune %q in %q", r, out)
		}
	}
	// ñ 退回到 n，Ö 退回到大写 o
	if !strings.HasPrefix(out, "⠨⠎⠑⠝⠕⠗⠀⠨⠕") {
		t.Fatalf("unexpected prefix: %q", out)
	}
}

func TestTranslateDecomposedInput(t *testing.T) {
	tr := mustDefault(t)
	// e + U+0301 组合重音，应先 NFC 归一化为 é
	if got := tr.Translate("e\u0301"); got != "⠿" {
		t.Fatalf("Translate(decomposed é) = %q", got)
	}
}

func TestLoadCustomTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.tbl")
	if err := os.WriteFile(path, []byte("space 0\nletter a 1\n"), 0o644); err != nil {
		t.Fatalf("写入转写表失败: %v", err)
	}
	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := tr.Translate("a b a"); got != "⠁⠀⠀⠁" {
		t.Fatalf("Translate with mini table = %q", got)
	}
	if _, err := Load(filepath.Join(dir, "missing.tbl")); err == nil {
		t.Fatalf("expected error for missing table")
	}
}
