package news

import (
	"errors"
	"fmt"
	"time"
)

// Kind 决定来源由哪个 Fetcher 处理。
type Kind string

const (
	KindNewsAPI Kind = "newsapi"
	KindRSS     Kind = "rss"
)

// Source 是一个新闻来源。newsapi 来源按 Domain 查询，rss 来源读取 Feed。
type Source struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Kind   Kind   `yaml:"kind"`
	Feed   string `yaml:"feed"`
}

// DefaultSources 返回默认的四个法语科技/时事来源。
func DefaultSources() []Source {
	return []Source{
		{Name: "Usine Digitale", Domain: "usine-digitale.fr", Kind: KindNewsAPI},
		{Name: "France Info", Domain: "francetvinfo.fr", Kind: KindNewsAPI},
		{Name: "HuffPost", Domain: "huffingtonpost.fr", Kind: KindNewsAPI},
		{Name: "Journal du Net", Domain: "journaldunet.com", Kind: KindNewsAPI},
	}
}

func (s Source) Validate() error {
	if s.Name == "" {
		return errors.New("source: missing name")
	}
	switch s.Kind {
	case KindNewsAPI, "":
		if s.Domain == "" {
			return fmt.Errorf("source %s: newsapi source needs a domain", s.Name)
		}
	case KindRSS:
		if s.Feed == "" {
			return fmt.Errorf("source %s: rss source needs a feed URL", s.Name)
		}
	default:
		return fmt.Errorf("source %s: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// Article 是一篇待提取全文的文章。Published 保留来源给出的原始时间字符串。
type Article struct {
	Title       string
	Source      string
	URL         string
	Description string
	Published   string
	PublishedAt time.Time
}
