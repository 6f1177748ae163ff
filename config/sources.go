package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avrilemay/braille-newsletter/news"
)

// SourcesConfig is the YAML structure of the sources file:
//
//	sources:
//	  - name: France Info
//	    domain: francetvinfo.fr
//	  - name: Le Monde
//	    kind: rss
//	    feed: https://www.lemonde.fr/rss/une.xml
type SourcesConfig struct {
	Sources []news.Source `yaml:"sources"`
}

// LoadSources 读取来源列表。path 为空或文件不存在时返回默认的四个来源。
func LoadSources(path string) ([]news.Source, error) {
	if path == "" {
		return news.DefaultSources(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return news.DefaultSources(), nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources %s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources %s: no source defined", path)
	}
	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		s.Kind = news.Kind(strings.ToLower(string(s.Kind)))
		if s.Kind == "" {
			s.Kind = news.KindNewsAPI
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sources %s: entry %d: %w", path, i+1, err)
		}
	}
	return cfg.Sources, nil
}
