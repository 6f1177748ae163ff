// Package config 读取 TOML 应用配置与 YAML 来源列表。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/avrilemay/braille-newsletter/layout"
	"github.com/avrilemay/braille-newsletter/news"
)

// Config holds all braille-newsletter configuration.
type Config struct {
	Mode         string `toml:"mode"`
	Window       string `toml:"window"`
	Renderer     string `toml:"renderer"`
	Output       string `toml:"output"`
	DebugJSON    string `toml:"debug_json"`
	SourcesFile  string `toml:"sources_file"`
	BrailleTable string `toml:"braille_table"`

	NewsAPI   NewsAPIConfig   `toml:"newsapi"`
	HTTP      HTTPConfig      `toml:"http"`
	Page      PageConfig      `toml:"page"`
	Braille   ProfileConfig   `toml:"braille"`
	Plain     ProfileConfig   `toml:"plain"`
	Templates TemplatesConfig `toml:"templates"`
}

type NewsAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	APIKeyEnv string `toml:"api_key_env"`
	Language  string `toml:"language"`
	SortBy    string `toml:"sort_by"`
	PageSize  int    `toml:"page_size"`
}

type HTTPConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RetryDelayMS   int    `toml:"retry_delay_ms"`
	UserAgent      string `toml:"user_agent"`
}

// PageConfig 的长度均写成带单位的字符串，如 "210mm"、"17pt"。
type PageConfig struct {
	Width        string `toml:"width"`
	Height       string `toml:"height"`
	Margin       string `toml:"margin"`
	MarginBottom string `toml:"margin_bottom"`
	Font         string `toml:"font"`
}

// ProfileConfig 是某个输出模式的排版参数；Budget 为空表示使用内容区宽度。
type ProfileConfig struct {
	FontSize     string `toml:"font_size"`
	LineHeight   string `toml:"line_height"`
	ParagraphGap string `toml:"paragraph_gap"`
	Budget       string `toml:"budget"`
}

// TemplatesConfig 覆盖文章块模板，留空使用内置模板。
type TemplatesConfig struct {
	Plain   string `toml:"plain"`
	Braille string `toml:"braille"`
}

// Profile 是解析后的排版参数，单位 mm。
type Profile struct {
	FontSize     float64
	LineHeight   float64
	ParagraphGap float64
	Budget       float64
}

// Page 是解析后的页面几何，单位 mm。
type Page struct {
	Width  float64
	Height float64
	Margin layout.Margin
}

// DefaultConfig returns config with the defaults of the original newsletter.
func DefaultConfig() Config {
	return Config{
		Mode:        string(layout.ModeBraille),
		Window:      "1d",
		Renderer:    "canvas",
		Output:      "output/revueDePresse.pdf",
		SourcesFile: "configs/sources.yaml",
		NewsAPI: NewsAPIConfig{
			BaseURL:   "https://newsapi.org",
			APIKeyEnv: "NEWSAPI_KEY",
			Language:  "fr",
			SortBy:    "popularity",
			PageSize:  1,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
			RetryAttempts:  3,
			RetryDelayMS:   500,
			UserAgent:      "braille-newsletter/1.0",
		},
		Page: PageConfig{
			Width:        "210mm",
			Height:       "297mm",
			Margin:       "10mm",
			MarginBottom: "20mm",
			Font:         "fonts/DejaVuSans.ttf",
		},
		Braille: ProfileConfig{
			FontSize:     "17pt",
			LineHeight:   "12mm",
			ParagraphGap: "1mm",
			Budget:       "180mm",
		},
		Plain: ProfileConfig{
			FontSize:     "12pt",
			LineHeight:   "10mm",
			ParagraphGap: "5mm",
		},
	}
}

// searchPaths 是未显式指定配置文件时依次尝试的位置。
var searchPaths = []string{"config.toml", "configs/config.toml"}

// Load 读取配置。path 非空时文件必须存在；为空时依次尝试 searchPaths，都不存在则使用默认值。
// 环境变量（api_key_env 指定的变量）会覆盖文件中的 API key。
func Load(path string) (Config, string, error) {
	cfg := DefaultConfig()

	used := ""
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, "", err
		}
		used = path
	} else {
		for _, p := range searchPaths {
			if _, err := os.Stat(p); err == nil {
				if err := decodeFile(p, &cfg); err != nil {
					return cfg, "", err
				}
				used = p
				break
			}
		}
	}

	cfg.applyEnv()
	return cfg, used, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	env := c.NewsAPI.APIKeyEnv
	if env == "" {
		env = "NEWSAPI_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		c.NewsAPI.APIKey = v
	}
}

// Validate 检查取值范围，把所有问题合并成一个错误返回。
func (c Config) Validate() error {
	var errs []error
	if _, err := layout.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := news.ParseWindow(c.Window); err != nil {
		errs = append(errs, err)
	}
	switch c.Renderer {
	case "canvas", "fpdf":
	default:
		errs = append(errs, fmt.Errorf("renderer: unknown backend %q (canvas|fpdf)", c.Renderer))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output: empty path"))
	}
	if c.NewsAPI.PageSize < 1 {
		errs = append(errs, fmt.Errorf("newsapi.page_size: must be >= 1, got %d", c.NewsAPI.PageSize))
	}
	if c.HTTP.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("http.retry_attempts: must be >= 1, got %d", c.HTTP.RetryAttempts))
	}
	if c.HTTP.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("http.timeout_seconds: must be >= 1, got %d", c.HTTP.TimeoutSeconds))
	}
	if _, err := c.PageGeometry(); err != nil {
		errs = append(errs, err)
	}
	for _, mode := range []layout.Mode{layout.ModeBraille, layout.ModePlain} {
		if _, err := c.Profile(mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PageGeometry 解析页面尺寸与边距：margin 作用于四边，margin_bottom 单独覆盖底边。
func (c Config) PageGeometry() (Page, error) {
	width, err := positive("page.width", c.Page.Width)
	if err != nil {
		return Page{}, err
	}
	height, err := positive("page.height", c.Page.Height)
	if err != nil {
		return Page{}, err
	}
	margin, err := nonNegative("page.margin", c.Page.Margin)
	if err != nil {
		return Page{}, err
	}
	bottom := margin
	if c.Page.MarginBottom != "" {
		if bottom, err = nonNegative("page.margin_bottom", c.Page.MarginBottom); err != nil {
			return Page{}, err
		}
	}
	return Page{
		Width:  width,
		Height: height,
		Margin: layout.Margin{Top: margin, Right: margin, Bottom: bottom, Left: margin},
	}, nil
}

// Profile 返回指定模式的排版参数。braille 模式必须给出 budget。
func (c Config) Profile(mode layout.Mode) (Profile, error) {
	pc, section := c.Plain, "plain"
	if mode == layout.ModeBraille {
		pc, section = c.Braille, "braille"
	}

	var p Profile
	var err error
	if p.FontSize, err = positive(section+".font_size", pc.FontSize); err != nil {
		return Profile{}, err
	}
	if p.LineHeight, err = positive(section+".line_height", pc.LineHeight); err != nil {
		return Profile{}, err
	}
	if pc.ParagraphGap != "" {
		if p.ParagraphGap, err = nonNegative(section+".paragraph_gap", pc.ParagraphGap); err != nil {
			return Profile{}, err
		}
	}
	if pc.Budget != "" || mode == layout.ModeBraille {
		if p.Budget, err = positive(section+".budget", pc.Budget); err != nil {
			return Profile{}, err
		}
	}
	return p, nil
}

func positive(field, value string) (float64, error) {
	v, err := nonNegative(field, value)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%s: must be positive", field)
	}
	return v, nil
}

func nonNegative(field, value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	mm := l.ToMM()
	if mm < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", field, l)
	}
	return mm, nil
}
