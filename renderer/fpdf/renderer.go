// Package fpdfrenderer 使用 codeberg.org/go-pdf/fpdf 输出 PDF。
//
// 测量与折行直接使用 fpdf 的 GetStringWidth / SplitText。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/avrilemay/braille-newsletter/fonts"
	"github.com/avrilemay/braille-newsletter/layout"
	"github.com/avrilemay/braille-newsletter/renderer"
)

const defaultFamily = "body"

// Renderer 实现 renderer.Backend。
type Renderer struct {
	baseDir string

	mu    sync.Mutex
	cache map[string][]byte
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer 创建 fpdf 后端，字体相对路径以 baseDir 为基准查找。
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{baseDir: baseDir, cache: map[string][]byte{}}
}

// Measurer 返回 fpdf 在给定字体与字号（mm）下的字符串宽度（mm）。
func (r *Renderer) Measurer(font layout.FontResource, fontSize float64) (layout.MeasureFunc, error) {
	doc, err := r.measureDoc(font, fontSize)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	return func(s string) float64 {
		mu.Lock()
		defer mu.Unlock()
		return doc.GetStringWidth(s)
	}, nil
}

// WrapLines 按显式换行切分后，由 fpdf.SplitText 对每一行自动折行。
func (r *Renderer) WrapLines(content string, width float64, font layout.FontResource, fontSize float64) ([]string, error) {
	doc, err := r.measureDoc(font, fontSize)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, hard := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		if strings.TrimSpace(hard) == "" || width <= 0 {
			out = append(out, strings.TrimRight(hard, " \t"))
			continue
		}
		for _, line := range doc.SplitText(hard, width) {
			out = append(out, strings.TrimRight(line, " \t"))
		}
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("fpdf 折行失败: %w", err)
	}
	return out, nil
}

// Render 将分页结果逐页写成 PDF。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	first := result.Pages[0]
	doc := newDoc(first.Width, first.Height)
	applyMeta(doc, result.Meta)

	families := map[string]string{}
	register := func(key string, font layout.FontResource) error {
		data, err := r.fontData(font.Src)
		if err != nil {
			return err
		}
		family := familyName(key)
		doc.AddUTF8FontFromBytes(family, "", data)
		families[key] = family
		return nil
	}
	for key, font := range result.Fonts {
		if err := register(key, font); err != nil {
			return nil, err
		}
	}
	if len(families) == 0 {
		if err := register(defaultFamily, layout.FontResource{}); err != nil {
			return nil, err
		}
	}

	for _, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, tb := range page.Texts {
			family, ok := families[tb.Font]
			if !ok {
				for _, f := range families {
					family = f
					break
				}
			}
			doc.SetFont(family, "", toPt(tb.FontSize))
			doc.SetTextColor(int(tb.Color.R), int(tb.Color.G), int(tb.Color.B))

			cursorY := tb.Y
			for _, line := range tb.Lines {
				h := line.Height
				if h <= 0 {
					h = tb.LineHeight
				}
				if line.Content != "" {
					doc.SetXY(tb.X, cursorY)
					doc.CellFormat(tb.Width, h, line.Content, "", 0, "L", false, 0, "")
				}
				cursorY += h
			}
		}
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("生成 PDF 失败: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) measureDoc(font layout.FontResource, fontSize float64) (*fpdf.Fpdf, error) {
	data, err := r.fontData(font.Src)
	if err != nil {
		return nil, err
	}
	doc := newDoc(210, 297)
	doc.AddUTF8FontFromBytes(defaultFamily, "", data)
	doc.SetFont(defaultFamily, "", toPt(fontSize))
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	return doc, nil
}

func (r *Renderer) fontData(src string) ([]byte, error) {
	if src == "" {
		src = fonts.DefaultSrc
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if data, ok := r.cache[src]; ok {
		return data, nil
	}
	data, _, err := fonts.Load(src, r.baseDir)
	if err != nil {
		return nil, err
	}
	r.cache[src] = data
	return data, nil
}

func newDoc(width, height float64) *fpdf.Fpdf {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	doc.SetAutoPageBreak(false, 0)
	return doc
}

func applyMeta(doc *fpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, " "), true)
}

func familyName(key string) string {
	name := strings.ToLower(strings.TrimSpace(key))
	if name == "" {
		return defaultFamily
	}
	return name
}

func toPt(mm float64) float64 { return mm * layout.MmToPt }
