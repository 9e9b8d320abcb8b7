package enrich

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/signpost/pkg/imagesearch"
	"github.com/JaimeStill/signpost/pkg/translate"
	"github.com/JaimeStill/signpost/pkg/wiki"
)

// Config controls how a sign name is expanded into images, a summary,
// and a translation.
type Config struct {
	Suffix         string             `toml:"suffix"`
	MaxResults     int                `toml:"max_results"`
	FullSentences  int                `toml:"full_sentences"`
	ShortSentences int                `toml:"short_sentences"`
	Search         imagesearch.Config `toml:"search"`
	Summary        wiki.Config        `toml:"summary"`
	Translate      translate.Config   `toml:"translate"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Suffix         string
	MaxResults     string
	FullSentences  string
	ShortSentences string
	Search         *imagesearch.Env
	Summary        *wiki.Env
	Translate      *translate.Env
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()

	var searchEnv *imagesearch.Env
	var summaryEnv *wiki.Env
	var translateEnv *translate.Env
	if env != nil {
		c.loadEnv(env)
		searchEnv, summaryEnv, translateEnv = env.Search, env.Summary, env.Translate
	}

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Search.Finalize(searchEnv); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Summary.Finalize(summaryEnv); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := c.Translate.Finalize(translateEnv); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Suffix != "" {
		c.Suffix = overlay.Suffix
	}
	if overlay.MaxResults != 0 {
		c.MaxResults = overlay.MaxResults
	}
	if overlay.FullSentences != 0 {
		c.FullSentences = overlay.FullSentences
	}
	if overlay.ShortSentences != 0 {
		c.ShortSentences = overlay.ShortSentences
	}
	c.Search.Merge(&overlay.Search)
	c.Summary.Merge(&overlay.Summary)
	c.Translate.Merge(&overlay.Translate)
}

func (c *Config) loadDefaults() {
	if c.Suffix == "" {
		c.Suffix = " traffic sign"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.FullSentences == 0 {
		c.FullSentences = 5
	}
	if c.ShortSentences == 0 {
		c.ShortSentences = 2
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Suffix != "" {
		if v := os.Getenv(env.Suffix); v != "" {
			c.Suffix = v
		}
	}
	for name, dst := range map[string]*int{
		env.MaxResults:     &c.MaxResults,
		env.FullSentences:  &c.FullSentences,
		env.ShortSentences: &c.ShortSentences,
	} {
		if name == "" {
			continue
		}
		if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.MaxResults < 1 || c.MaxResults > 10 {
		return fmt.Errorf("max_results must be between 1 and 10")
	}
	if c.FullSentences < 1 || c.ShortSentences < 1 {
		return fmt.Errorf("sentence counts must be positive")
	}
	return nil
}
