package layout

import (
	"errors"
	"strings"
	"testing"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽 1mm，按空格贪心折行。
type stubTypesetter struct {
	wrapped []string
}

func (s *stubTypesetter) Measurer(font FontResource, fontSize float64) (MeasureFunc, error) {
	return runeWidth, nil
}

func (s *stubTypesetter) WrapLines(content string, width float64, font FontResource, fontSize float64) ([]string, error) {
	s.wrapped = append(s.wrapped, content)
	var out []string
	for _, hard := range strings.Split(content, "\n") {
		line := ""
		for _, w := range strings.Fields(hard) {
			if line != "" && runeWidth(line+" "+w) > width {
				out = append(out, line)
				line = w
				continue
			}
			if line == "" {
				line = w
			} else {
				line += " " + w
			}
		}
		out = append(out, line)
	}
	return out, nil
}

func brailleOptions(height float64) PageOptions {
	return PageOptions{
		Width:        100,
		Height:       height,
		Margin:       Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
		Mode:         ModeBraille,
		Font:         FontResource{Name: "DejaVu", Src: "fonts/DejaVuSans.ttf"},
		FontSize:     6,
		LineHeight:   10,
		ParagraphGap: 1,
	}
}

func TestPaginateBreaksPages(t *testing.T) {
	// 内容区域高 30mm，每页 3 行
	paras := []Paragraph{
		{Lines: []string{"⠁", "⠃", "⠉", "⠙", "⠑"}},
		{Lines: []string{"⠋"}},
	}
	res, err := Paginate(paras, brailleOptions(50))
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(res.Pages))
	}
	p1, p2, p3 := res.Pages[0], res.Pages[1], res.Pages[2]
	if len(p1.Texts) != 1 || len(p1.Texts[0].Lines) != 3 || p1.Texts[0].Y != 10 {
		t.Fatalf("page 1 unexpected: %+v", p1.Texts)
	}
	if len(p2.Texts) != 1 || len(p2.Texts[0].Lines) != 2 || p2.Texts[0].Content != "⠙\n⠑" {
		t.Fatalf("page 2 unexpected: %+v", p2.Texts)
	}
	// 第二段在第二页的 y=31 处放不下（31+10>40），移到第三页
	if len(p3.Texts) != 1 || p3.Texts[0].Y != 10 || p3.Texts[0].Lines[0].Content != "⠋" {
		t.Fatalf("page 3 unexpected: %+v", p3.Texts)
	}
	for i, p := range res.Pages {
		if p.Number != i+1 {
			t.Fatalf("page %d numbered %d", i, p.Number)
		}
	}
	if _, ok := res.Fonts["DejaVu"]; !ok {
		t.Fatalf("font resource missing: %+v", res.Fonts)
	}
}

func TestPaginateEmptyParagraphAddsGapOnly(t *testing.T) {
	opts := brailleOptions(297)
	opts.ParagraphGap = 2
	paras := []Paragraph{{Lines: []string{"⠁"}}, {}, {Lines: []string{"⠃"}}}
	res, err := Paginate(paras, opts)
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	texts := res.Pages[0].Texts
	if len(texts) != 2 {
		t.Fatalf("expected 2 text boxes, got %d", len(texts))
	}
	if got, want := texts[1].Y, 10.0+10+2+2; got != want {
		t.Fatalf("second box y = %g, want %g", got, want)
	}
}

func TestPaginateTextBoxHeightInvariant(t *testing.T) {
	opts := brailleOptions(297)
	opts.Typesetter = &stubTypesetter{}
	res, err := Paginate([]Paragraph{{Lines: []string{"⠁⠃", "⠉"}}}, opts)
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	tb := res.Pages[0].Texts[0]
	sum := 0.0
	for _, ln := range tb.Lines {
		sum += ln.Height
	}
	if tb.Height != sum {
		t.Fatalf("TextBox.Height=%g, Σline.Height=%g", tb.Height, sum)
	}
	if tb.Lines[0].Width != 2 || tb.Lines[1].Width != 1 {
		t.Fatalf("line widths not measured: %+v", tb.Lines)
	}
}

func TestPaginatePlainUsesRendererWrap(t *testing.T) {
	ts := &stubTypesetter{}
	opts := brailleOptions(297)
	opts.Mode = ModePlain
	opts.Width = 25 // 内容宽 5mm
	opts.Typesetter = ts
	res, err := Paginate([]Paragraph{{Lines: []string{"aa bb cc"}}}, opts)
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(ts.wrapped) != 1 || ts.wrapped[0] != "aa bb cc" {
		t.Fatalf("WrapLines not called with paragraph: %q", ts.wrapped)
	}
	tb := res.Pages[0].Texts[0]
	if tb.Content != "aa bb\ncc" {
		t.Fatalf("unexpected content %q", tb.Content)
	}
}

func TestPaginateBrailleDoesNotRewrap(t *testing.T) {
	ts := &stubTypesetter{}
	opts := brailleOptions(297)
	opts.Typesetter = ts
	if _, err := Paginate([]Paragraph{{Lines: []string{"⠁⠀⠃"}}}, opts); err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(ts.wrapped) != 0 {
		t.Fatalf("braille lines must not go through renderer wrap: %q", ts.wrapped)
	}
}

func TestPaginateOversizedLineHeight(t *testing.T) {
	opts := brailleOptions(50)
	opts.LineHeight = 40 // 大于内容区域
	res, err := Paginate([]Paragraph{{Lines: []string{"⠁", "⠃"}}}, opts)
	if err != nil {
		t.Fatalf("Paginate error: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected one line per page, got %d pages", len(res.Pages))
	}
}

func TestPaginateValidation(t *testing.T) {
	plain := brailleOptions(297)
	plain.Mode = ModePlain
	bad := map[string]PageOptions{
		"plain without typesetter": plain,
		"zero line height":         func() PageOptions { o := brailleOptions(297); o.LineHeight = 0; return o }(),
		"margins too wide":         func() PageOptions { o := brailleOptions(297); o.Margin.Left = 95; return o }(),
		"no page":                  {Mode: ModeBraille, LineHeight: 10},
	}
	for name, opts := range bad {
		if _, err := Paginate(nil, opts); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected ErrConfiguration, got %v", name, err)
		}
	}
}
