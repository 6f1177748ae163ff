package digest

import (
	"context"
	"errors"
	"time"

	"github.com/avrilemay/braille-newsletter/extract"
	"github.com/avrilemay/braille-newsletter/logger"
	"github.com/avrilemay/braille-newsletter/news"
)

// ErrEmpty 表示没有任何文章被成功获取，不应生成 PDF。
var ErrEmpty = errors.New("digest: no article could be retrieved")

// Report 是一次运行的结果。
type Report struct {
	Text     string
	Articles []news.Article
	Failures []news.Failure
}

// Pipeline 串联抓取、正文提取与组装。
type Pipeline struct {
	Fetchers  map[news.Kind]news.Fetcher
	Extractor extract.Extractor
	Composer  *Composer
	Now       func() time.Time
}

// Run 处理所有来源。来源或文章失败只记录到 Report.Failures；
// 一篇文章都没有成功时返回 ErrEmpty（Report 仍然返回，便于报告失败原因）。
func (p *Pipeline) Run(ctx context.Context, sources []news.Source, w news.Window) (*Report, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	articles, failures := news.Collect(ctx, p.Fetchers, sources, w, now())
	report := &Report{Failures: failures}

	var entries []Entry
	for i, a := range articles {
		logger.Info("getting full content of article", "index", i+1, "total", len(articles), "url", a.URL)
		content, err := p.Extractor.Extract(ctx, a.URL)
		if err != nil {
			logger.Error("error retrieving article", "source", a.Source, "url", a.URL, "err", err)
			report.Failures = append(report.Failures, news.Failure{Source: a.Source, URL: a.URL, Err: err})
			continue
		}
		entries = append(entries, Entry{Article: a, Content: content})
		report.Articles = append(report.Articles, a)
	}

	if len(entries) == 0 {
		return report, ErrEmpty
	}
	report.Text = p.Composer.ComposeAll(entries)
	logger.Info("digest composed", "articles", len(entries), "failures", len(report.Failures), "mode", p.Composer.Mode())
	return report, nil
}
