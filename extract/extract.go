// Package extract 下载文章页面并提取正文。
//
// 优先使用 go-readability 识别正文区域，再用 goquery 按段落取出文本；
// 正文过短时退回到常见选择器的级联匹配。
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/avrilemay/braille-newsletter/logger"
	"github.com/avrilemay/braille-newsletter/retry"
)

// ErrNoContent 表示页面中找不到正文。
var ErrNoContent = errors.New("extract: can't get content")

// Extractor returns the plain-text body of an article, paragraphs separated by a blank line.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// HTTPExtractor 通过 HTTP 获取页面。
type HTTPExtractor struct {
	HTTP      *http.Client
	UserAgent string
	Retry     retry.Config
	// MinChars 是认为 readability 结果可用的最少字符数。
	MinChars int
	// MaxBytes 限制读取的页面大小。
	MaxBytes int64
}

func NewHTTPExtractor() *HTTPExtractor {
	return &HTTPExtractor{
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Retry:    retry.Config{MaxAttempts: 3, Delay: 500 * time.Millisecond, Backoff: true},
		MinChars: 200,
		MaxBytes: 8 << 20,
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		return "", fmt.Errorf("invalid article URL %q", rawURL)
	}

	var page []byte
	err = retry.Do(ctx, e.Retry, func(ctx context.Context) error {
		b, err := e.download(ctx, pageURL.String())
		if err != nil {
			return err
		}
		page = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("error loading page %s: %w", rawURL, err)
	}

	text := e.readable(page, pageURL)
	if utf8.RuneCountInString(text) < e.MinChars {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
		if err != nil {
			return "", fmt.Errorf("error parsing HTML: %w", err)
		}
		if fallback := extractGenericContent(doc); utf8.RuneCountInString(fallback) > utf8.RuneCountInString(text) {
			logger.Debug("readability result too short, using selectors", "url", rawURL)
			text = fallback
		}
	}

	text = Clean(text)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

func (e *HTTPExtractor) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}
	client := e.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, retry.Permanent(fmt.Errorf("HTTP error: %d", resp.StatusCode))
	}
	limit := e.MaxBytes
	if limit <= 0 {
		limit = 8 << 20
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// readable 用 readability 找到正文，再逐段落取文本；失败时返回空串。
func (e *HTTPExtractor) readable(page []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		logger.Debug("readability failed", "url", pageURL.String(), "err", err)
		return ""
	}
	if article.Content != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			if text := paragraphs(doc.Selection, "p, h2, h3, li, blockquote", 0); text != "" {
				return text
			}
		}
	}
	return article.TextContent
}

// extractGenericContent is universal parser for any site
func extractGenericContent(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article p",
		".article-body p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		".text p",
		"p",
	}

	for _, selector := range selectors {
		if text := paragraphs(doc.Selection, selector, 20); text != "" {
			return text
		}
	}
	return ""
}

func paragraphs(sel *goquery.Selection, selector string, minLen int) string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && utf8.RuneCountInString(text) > minLen {
			out = append(out, text)
		}
	})
	return strings.Join(out, "\n\n")
}

var (
	inlineSpace = regexp.MustCompile(`[ \t\x{00A0}]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// Clean normalises extracted text: unified line endings, collapsed inline
// whitespace, trimmed lines, at most one blank line between paragraphs.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
