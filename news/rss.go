package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/avrilemay/braille-newsletter/retry"
)

// RSSClient 读取 rss/atom 来源，只保留时间窗口内带日期的条目。
type RSSClient struct {
	PageSize  int
	UserAgent string
	HTTP      *http.Client
	Retry     retry.Config
}

func NewRSSClient() *RSSClient {
	return &RSSClient{
		PageSize: 1,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Retry:    retry.Config{MaxAttempts: 3, Delay: 500 * time.Millisecond, Backoff: true},
	}
}

func (c *RSSClient) Fetch(ctx context.Context, src Source, from, to time.Time) ([]Article, error) {
	parser := gofeed.NewParser()
	parser.Client = c.HTTP
	if c.UserAgent != "" {
		parser.UserAgent = c.UserAgent
	}

	var feed *gofeed.Feed
	err := retry.Do(ctx, c.Retry, func(ctx context.Context) error {
		f, err := parser.ParseURLWithContext(src.Feed, ctx)
		if err != nil {
			// 4xx 与格式错误不会因重试而恢复
			var herr gofeed.HTTPError
			if errors.As(err, &herr) && herr.StatusCode < 500 {
				return retry.Permanent(err)
			}
			if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
				return retry.Permanent(err)
			}
			return err
		}
		feed = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rss %s: %w", src.Feed, err)
	}

	var articles []Article
	for _, item := range feed.Items {
		ts := item.PublishedParsed
		raw := item.Published
		if ts == nil {
			ts, raw = item.UpdatedParsed, item.Updated
		}
		if ts == nil || ts.Before(from) || ts.After(to) || item.Link == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       strings.TrimSpace(item.Title),
			Source:      src.Name,
			URL:         item.Link,
			Description: strings.TrimSpace(item.Description),
			Published:   raw,
			PublishedAt: *ts,
		})
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if limit := max(c.PageSize, 1); len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}
