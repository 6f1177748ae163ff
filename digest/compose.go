// Package digest 把抓取到的文章组装成一份 revue de presse 文本，交给 layout 排版。
package digest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avrilemay/braille-newsletter/binding"
	"github.com/avrilemay/braille-newsletter/braille"
	"github.com/avrilemay/braille-newsletter/layout"
	"github.com/avrilemay/braille-newsletter/news"
)

// PlainTemplate 是法语文本模式下每篇文章的块。
const PlainTemplate = "Titre : ${title}\nSource : ${source}\nPublié le : ${published}\nURL : ${url}\n\n${content}\n\n------------------------------\n\n"

// BrailleTemplate 是盲文模式下每篇文章的块，字面部分已是盲文：
// ⠨⠞⠊⠞⠗⠑⠒ "Titre:"，⠨⠎⠕⠥⠗⠉⠑⠒ "Source:"，⠨⠏⠥⠃⠇⠊⠿⠀⠇⠑⠒ "Publié le:"，⠨⠥⠗⠇⠒ "Url:"，最后一行为分隔线。
const BrailleTemplate = "\n\n\n⠨⠞⠊⠞⠗⠑⠒⠀${title}\n\n⠨⠎⠕⠥⠗⠉⠑⠒⠀${source}\n⠨⠏⠥⠃⠇⠊⠿⠀⠇⠑⠒⠀${published}\n⠨⠥⠗⠇⠒⠀${url}\n${content}\n⠶⠶⠶⠶⠶⠶⠶⠶⠶⠶⠶"

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// Composer 按模式把文章渲染为文本块。
type Composer struct {
	mode       layout.Mode
	template   string
	translator *braille.Translator
}

// NewComposer 创建 Composer。template 为空时使用该模式的内置模板；braille 模式需要 translator。
func NewComposer(mode layout.Mode, template string, translator *braille.Translator) (*Composer, error) {
	switch mode {
	case layout.ModePlain:
		if template == "" {
			template = PlainTemplate
		}
	case layout.ModeBraille:
		if translator == nil {
			return nil, fmt.Errorf("digest: braille mode needs a translator")
		}
		if template == "" {
			template = BrailleTemplate
		}
	default:
		return nil, &layout.ConfigError{Field: "mode", Reason: "未知输出模式 " + string(mode)}
	}
	for _, name := range binding.Names(template) {
		switch name {
		case "title", "source", "published", "url", "content":
		default:
			return nil, fmt.Errorf("digest: unknown template field %q", name)
		}
	}
	return &Composer{mode: mode, template: template, translator: translator}, nil
}

func (c *Composer) Mode() layout.Mode { return c.mode }

// Compose 渲染一篇文章。盲文模式先把正文中三个以上的连续换行压缩为一个空行，
// 再对每个字段值转写；模板字面文本不转写。
func (c *Composer) Compose(a news.Article, content string) string {
	fields := map[string]string{
		"title":     a.Title,
		"source":    a.Source,
		"published": a.Published,
		"url":       a.URL,
		"content":   content,
	}
	if c.mode != layout.ModeBraille {
		return binding.Interpolate(c.template, fields)
	}
	fields["content"] = extraBlankLines.ReplaceAllString(content, "\n\n")
	return binding.InterpolateFunc(c.template, fields, c.translator.Translate)
}

// Entry 是一篇文章与其正文。
type Entry struct {
	Article news.Article
	Content string
}

// ComposeAll 按顺序拼接所有文章块。
func (c *Composer) ComposeAll(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(c.Compose(e.Article, e.Content))
	}
	return b.String()
}
