package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/avrilemay/braille-newsletter/braille"
	"github.com/avrilemay/braille-newsletter/config"
	"github.com/avrilemay/braille-newsletter/digest"
	"github.com/avrilemay/braille-newsletter/extract"
	"github.com/avrilemay/braille-newsletter/layout"
	"github.com/avrilemay/braille-newsletter/logger"
	"github.com/avrilemay/braille-newsletter/news"
	"github.com/avrilemay/braille-newsletter/renderer"
	canvasrenderer "github.com/avrilemay/braille-newsletter/renderer/canvas"
	fpdfrenderer "github.com/avrilemay/braille-newsletter/renderer/fpdf"
	"github.com/avrilemay/braille-newsletter/retry"
)

func main() {
	configPath := flag.String("config", "", "TOML 配置文件路径（默认依次查找 ./config.toml、configs/config.toml）")
	window := flag.String("window", "", "时间窗口：1d | 7d | 30d")
	mode := flag.String("mode", "", "输出模式：braille | plain")
	output := flag.String("out", "", "PDF 输出路径")
	backend := flag.String("renderer", "", "渲染后端：canvas | fpdf")
	sources := flag.String("sources", "", "来源列表 YAML 路径")
	input := flag.String("in", "", "直接排版该文本文件，跳过抓取")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	cfg, used, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			cfg.Window = *window
		case "mode":
			cfg.Mode = *mode
		case "out":
			cfg.Output = *output
		case "renderer":
			cfg.Renderer = *backend
		case "sources":
			cfg.SourcesFile = *sources
		case "debug":
			cfg.DebugJSON = *debug
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	logger.Init(*verbose)
	if used != "" {
		logger.Debug("config loaded", "path", used)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *input); err != nil {
		if errors.Is(err, digest.ErrEmpty) {
			log.Fatalf("没有获取到任何文章，未生成 PDF")
		}
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", cfg.Output)
}

// run 串联抓取、组装、排版与渲染。
func run(ctx context.Context, cfg config.Config, inputPath string) error {
	mode, err := layout.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	window, err := news.ParseWindow(cfg.Window)
	if err != nil {
		return err
	}
	profile, err := cfg.Profile(mode)
	if err != nil {
		return err
	}
	page, err := cfg.PageGeometry()
	if err != nil {
		return err
	}

	var translator *braille.Translator
	if mode == layout.ModeBraille {
		if translator, err = braille.Load(cfg.BrailleTable); err != nil {
			return err
		}
	}

	text, err := digestText(ctx, cfg, mode, window, translator, inputPath)
	if err != nil {
		return err
	}

	r, err := newBackend(cfg.Renderer)
	if err != nil {
		return err
	}
	font := layout.FontResource{Name: "Body", Src: cfg.Page.Font}

	opts := layout.PageOptions{
		Width:        page.Width,
		Height:       page.Height,
		Margin:       page.Margin,
		Mode:         mode,
		Font:         font,
		FontSize:     profile.FontSize,
		LineHeight:   profile.LineHeight,
		ParagraphGap: profile.ParagraphGap,
		Typesetter:   r,
		Meta: layout.DocumentMeta{
			Title:    "Revue de presse",
			Subject:  window.Label,
			Creator:  "braille-newsletter",
			Keywords: []string{"revue de presse", string(mode)},
		},
	}

	var measure layout.MeasureFunc
	budget := profile.Budget
	if mode == layout.ModeBraille {
		if measure, err = r.Measurer(font, profile.FontSize); err != nil {
			return fmt.Errorf("创建测量函数失败: %w", err)
		}
		if budget <= 0 {
			budget = opts.ContentWidth()
		}
	}

	paragraphs, err := layout.Assemble(text, mode, budget, measure)
	if err != nil {
		return fmt.Errorf("段落组装失败: %w", err)
	}
	result, err := layout.Paginate(paragraphs, opts)
	if err != nil {
		return fmt.Errorf("分页失败: %w", err)
	}
	logger.Info("layout done", "paragraphs", len(paragraphs), "pages", len(result.Pages), "mode", mode)

	if cfg.DebugJSON != "" {
		if err := writeDebug(cfg.DebugJSON, mode, paragraphs, result); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(cfg.Output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

// digestText 返回待排版的文本：指定了输入文件时直接读取（盲文模式下整体转写），否则运行抓取流水线。
func digestText(ctx context.Context, cfg config.Config, mode layout.Mode, window news.Window, translator *braille.Translator, inputPath string) (string, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("无法读取输入文件 %s: %w", inputPath, err)
		}
		if mode == layout.ModeBraille {
			return translator.Translate(string(data)), nil
		}
		return string(data), nil
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return "", err
	}
	template := cfg.Templates.Plain
	if mode == layout.ModeBraille {
		template = cfg.Templates.Braille
	}
	composer, err := digest.NewComposer(mode, template, translator)
	if err != nil {
		return "", err
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second}
	retryCfg := retry.Config{
		MaxAttempts: cfg.HTTP.RetryAttempts,
		Delay:       time.Duration(cfg.HTTP.RetryDelayMS) * time.Millisecond,
		Backoff:     true,
	}

	api := news.NewNewsAPIClient(cfg.NewsAPI.APIKey)
	api.BaseURL = cfg.NewsAPI.BaseURL
	api.Language = cfg.NewsAPI.Language
	api.SortBy = cfg.NewsAPI.SortBy
	api.PageSize = cfg.NewsAPI.PageSize
	api.UserAgent = cfg.HTTP.UserAgent
	api.HTTP = httpClient
	api.Retry = retryCfg

	feeds := news.NewRSSClient()
	feeds.PageSize = cfg.NewsAPI.PageSize
	feeds.UserAgent = cfg.HTTP.UserAgent
	feeds.HTTP = httpClient
	feeds.Retry = retryCfg

	extractor := extract.NewHTTPExtractor()
	extractor.HTTP = httpClient
	extractor.UserAgent = cfg.HTTP.UserAgent
	extractor.Retry = retryCfg

	pipeline := &digest.Pipeline{
		Fetchers:  map[news.Kind]news.Fetcher{news.KindNewsAPI: api, news.KindRSS: feeds},
		Extractor: extractor,
		Composer:  composer,
	}
	report, err := pipeline.Run(ctx, sources, window)
	if report != nil {
		for _, f := range report.Failures {
			logger.Warn("skipped", "detail", f.Error())
		}
	}
	if err != nil {
		return "", err
	}
	return report.Text, nil
}

func newBackend(name string) (renderer.Backend, error) {
	switch name {
	case "", "canvas":
		return canvasrenderer.NewRenderer("."), nil
	case "fpdf":
		return fpdfrenderer.NewRenderer("."), nil
	default:
		return nil, fmt.Errorf("未知渲染后端 %q", name)
	}
}

func writeDebug(debugPath string, mode layout.Mode, paragraphs []layout.Paragraph, result *layout.Result) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(debugPath, mode, paragraphs, result); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
