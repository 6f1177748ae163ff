package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avrilemay/braille-newsletter/logger"
	"github.com/avrilemay/braille-newsletter/retry"
)

// ErrMissingAPIKey 表示未配置 NewsAPI key。
var ErrMissingAPIKey = errors.New("newsapi: missing API key")

// Fetcher 获取一个来源在时间窗口内的文章。
type Fetcher interface {
	Fetch(ctx context.Context, src Source, from, to time.Time) ([]Article, error)
}

// NewsAPIClient queries the /v2/everything endpoint of newsapi.org.
type NewsAPIClient struct {
	BaseURL   string
	APIKey    string
	Language  string
	SortBy    string
	PageSize  int
	UserAgent string
	HTTP      *http.Client
	Retry     retry.Config
}

// NewNewsAPIClient 创建使用默认参数（fr、popularity、每个来源 1 篇）的客户端。
func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		BaseURL:  "https://newsapi.org",
		APIKey:   apiKey,
		Language: "fr",
		SortBy:   "popularity",
		PageSize: 1,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Retry:    retry.Config{MaxAttempts: 3, Delay: 500 * time.Millisecond, Backoff: true},
	}
}

type apiResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Fetch 请求一个 domain 的文章。5xx 与网络错误会重试，4xx 和 status=error 直接失败。
func (c *NewsAPIClient) Fetch(ctx context.Context, src Source, from, to time.Time) ([]Article, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	endpoint, err := c.endpoint(src, from, to)
	if err != nil {
		return nil, err
	}

	var body apiResponse
	err = retry.Do(ctx, c.Retry, func(ctx context.Context) error {
		resp, err := c.get(ctx, endpoint)
		if err != nil {
			logger.Debug("newsapi request failed", "source", src.Name, "err", err)
			return err
		}
		body = *resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", src.Domain, err)
	}

	articles := make([]Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a.URL == "" || a.Title == "[Removed]" {
			continue
		}
		name := a.Source.Name
		if name == "" {
			name = src.Name
		}
		art := Article{
			Title:       a.Title,
			Source:      name,
			URL:         a.URL,
			Description: a.Description,
			Published:   a.PublishedAt,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			art.PublishedAt = ts
		}
		articles = append(articles, art)
	}
	return articles, nil
}

func (c *NewsAPIClient) endpoint(src Source, from, to time.Time) (string, error) {
	base, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + "/v2/everything")
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("newsapi: invalid base URL: %w", err))
	}
	q := url.Values{}
	q.Set("q", "")
	q.Set("from", from.Format(DateLayout))
	q.Set("to", to.Format(DateLayout))
	q.Set("sortBy", c.SortBy)
	q.Set("language", c.Language)
	q.Set("pageSize", strconv.Itoa(max(c.PageSize, 1)))
	q.Set("domains", src.Domain)
	q.Set("apiKey", c.APIKey)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

func (c *NewsAPIClient) get(ctx context.Context, endpoint string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var body apiResponse
	decodeErr := json.Unmarshal(data, &body)

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && body.Message != "" {
			return nil, retry.Permanent(fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode, body.Code, body.Message))
		}
		return nil, retry.Permanent(fmt.Errorf("HTTP error: %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return nil, retry.Permanent(fmt.Errorf("decode response: %w", decodeErr))
	}
	if body.Status == "error" {
		return nil, retry.Permanent(fmt.Errorf("%s: %s", body.Code, body.Message))
	}
	return &body, nil
}
