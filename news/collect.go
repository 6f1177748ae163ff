package news

import (
	"context"
	"fmt"
	"time"

	"github.com/avrilemay/braille-newsletter/logger"
)

// Failure 记录一个失败的来源或文章。
type Failure struct {
	Source string
	URL    string
	Err    error
}

func (f Failure) Error() string {
	if f.URL != "" {
		return fmt.Sprintf("%s (%s): %v", f.Source, f.URL, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// Collect 依次请求每个来源。失败的来源记录为 Failure 并继续处理其余来源；
// 不同来源返回的同一 URL 只保留第一次出现。
func Collect(ctx context.Context, fetchers map[Kind]Fetcher, sources []Source, w Window, now time.Time) ([]Article, []Failure) {
	from, to := w.Range(now)

	var articles []Article
	var failures []Failure
	seen := map[string]bool{}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			failures = append(failures, Failure{Source: src.Name, Err: err})
			continue
		}
		kind := src.Kind
		if kind == "" {
			kind = KindNewsAPI
		}
		fetcher, ok := fetchers[kind]
		if !ok {
			err := fmt.Errorf("no fetcher for kind %q", kind)
			logger.Error("source skipped", "source", src.Name, "err", err)
			failures = append(failures, Failure{Source: src.Name, Err: err})
			continue
		}

		got, err := fetcher.Fetch(ctx, src, from, to)
		if err != nil {
			logger.Error("error fetching articles", "source", src.Name, "err", err)
			failures = append(failures, Failure{Source: src.Name, Err: err})
			continue
		}
		added := 0
		for _, a := range got {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			articles = append(articles, a)
			added++
		}
		logger.Info("fetched articles", "source", src.Name, "count", added)
	}
	return articles, failures
}
