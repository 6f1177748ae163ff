package layout

import (
	"fmt"
	"strings"
)

// Paginate 将段落按固定行高自上而下排入页面。
//
// plain 模式的段落先交给 Typesetter.WrapLines 按内容宽度自动折行；braille 模式的行已由 Pack 排好，
// 原样放置。下一行会越过内容区域底部时换页，跨页的段落拆成每页一个 TextBox。
// 每个段落之后追加 ParagraphGap，空段落只贡献这段间距。
func Paginate(paragraphs []Paragraph, opts PageOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var measure MeasureFunc
	if opts.Typesetter != nil {
		m, err := opts.Typesetter.Measurer(opts.Font, opts.FontSize)
		if err != nil {
			return nil, fmt.Errorf("创建测量函数失败: %w", err)
		}
		measure = m
	}

	collector := newPageCollector(opts.Width, opts.Height, opts.Margin)
	width := opts.ContentWidth()
	cursorY := collector.contentTop()

	for i, para := range paragraphs {
		lines, err := opts.expand(para, width)
		if err != nil {
			return nil, fmt.Errorf("段落 %d 折行失败: %w", i, err)
		}

		var box *TextBox
		flush := func() {
			if box == nil {
				return
			}
			contents := make([]string, len(box.Lines))
			for j, ln := range box.Lines {
				contents[j] = ln.Content
			}
			box.Content = strings.Join(contents, "\n")
			collector.curr().appendText(*box)
			box = nil
		}

		for _, content := range lines {
			// 页面顶部的行即使超出也照常放置，避免行高大于内容区域时无限换页。
			if cursorY+opts.LineHeight > collector.contentBottom() && cursorY > collector.contentTop() {
				flush()
				collector.newPage()
				cursorY = collector.contentTop()
			}
			if box == nil {
				box = &TextBox{
					X:          opts.Margin.Left,
					Y:          cursorY,
					Width:      width,
					LineHeight: opts.LineHeight,
					Font:       opts.Font.Name,
					FontSize:   opts.FontSize,
					Color:      opts.Color,
				}
			}
			line := TextLine{Content: content, Height: opts.LineHeight}
			if measure != nil && content != "" {
				line.Width = measure(content)
			}
			box.Lines = append(box.Lines, line)
			box.Height += opts.LineHeight
			cursorY += opts.LineHeight
		}
		flush()
		cursorY += opts.ParagraphGap
	}

	fonts := map[string]FontResource{}
	if opts.Font.Name != "" {
		fonts[opts.Font.Name] = opts.Font
	}
	return &Result{
		Pages: collector.pages(),
		Fonts: fonts,
		Meta:  opts.Meta,
	}, nil
}

func (o PageOptions) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return &ConfigError{Field: "page", Reason: fmt.Sprintf("页面尺寸无效 %gx%g", o.Width, o.Height)}
	}
	if o.ContentWidth() <= 0 {
		return &ConfigError{Field: "margin", Reason: "左右边距之和超过页面宽度"}
	}
	if o.Height-o.Margin.Top-o.Margin.Bottom <= 0 {
		return &ConfigError{Field: "margin", Reason: "上下边距之和超过页面高度"}
	}
	if o.LineHeight <= 0 {
		return &ConfigError{Field: "line-height", Reason: fmt.Sprintf("行高必须为正数，得到 %g", o.LineHeight)}
	}
	if o.ParagraphGap < 0 {
		return &ConfigError{Field: "paragraph-gap", Reason: "段落间距不能为负"}
	}
	switch o.Mode {
	case ModeBraille:
	case ModePlain:
		if o.Typesetter == nil {
			return &ConfigError{Field: "typesetter", Reason: "plain 模式需要排版后端自动折行"}
		}
		if o.FontSize <= 0 {
			return &ConfigError{Field: "font-size", Reason: "字号必须为正数"}
		}
	default:
		return &ConfigError{Field: "mode", Reason: "未知输出模式 " + string(o.Mode)}
	}
	return nil
}

func (o PageOptions) expand(para Paragraph, width float64) ([]string, error) {
	if o.Mode != ModePlain {
		return para.Lines, nil
	}
	var out []string
	for _, ln := range para.Lines {
		wrapped, err := o.Typesetter.WrapLines(ln, width, o.Font, o.FontSize)
		if err != nil {
			return nil, err
		}
		out = append(out, wrapped...)
	}
	return out, nil
}

type pageAccumulator struct {
	texts []TextBox
}

func (p *pageAccumulator) appendText(tb TextBox) {
	p.texts = append(p.texts, tb)
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	accs    []*pageAccumulator
	current int
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) contentTop() float64 { return pc.margin.Top }

func (pc *pageCollector) contentBottom() float64 { return pc.height - pc.margin.Bottom }

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Number: i + 1,
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Texts:  acc.texts,
		}
	}
	return out
}
