// Package autoload initialises the global logger from LOG_DEBUG and
// LOG_PRETTY_FORMAT when imported.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/tanpawarit/stepwise-orchestrator/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		logx.Init()
		return
	}
	logx.Init(conf)
}
