// Package autoload configures the global logger from LOG_* environment
// variables as a side effect of import.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/techflow/ai-recruiter/pkg/logger"
)

func init() {
	cfg := *logx.DefaultConfig
	_ = envconfig.Process("LOG", &cfg)
	logx.Init(cfg)
}
