package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/techflow/ai-recruiter/agent/contract"
	openrouterx "github.com/techflow/ai-recruiter/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" split_words:"true" default:"text-embedding-3-small"`

	ExitModel           string  `envconfig:"EXIT_MODEL" split_words:"true"`
	InfoModel           string  `envconfig:"INFO_MODEL" split_words:"true"`
	ScreenerModel       string  `envconfig:"SCREENER_MODEL" split_words:"true"`
	ExitTemperature     float32 `envconfig:"EXIT_TEMPERATURE" split_words:"true" default:"-1"`
	InfoTemperature     float32 `envconfig:"INFO_TEMPERATURE" split_words:"true" default:"-1"`
	ScreenerTemperature float32 `envconfig:"SCREENER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeExit:
		if v := strings.TrimSpace(c.ExitModel); v != "" {
			modelName = v
		}
		if c.ExitTemperature >= 0 {
			temp = c.ExitTemperature
		}
	case contractx.AgentTypeInfo:
		if v := strings.TrimSpace(c.InfoModel); v != "" {
			modelName = v
		}
		if c.InfoTemperature >= 0 {
			temp = c.InfoTemperature
		}
	case contractx.AgentTypeScreener:
		if v := strings.TrimSpace(c.ScreenerModel); v != "" {
			modelName = v
		}
		if c.ScreenerTemperature >= 0 {
			temp = c.ScreenerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
