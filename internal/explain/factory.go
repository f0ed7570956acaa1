package explain

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
)

// NewGenerator wires the configured explanation chain: template-only when
// the HTTP service is disabled, otherwise HTTP with template fallback,
// both behind a TTL cache.
func NewGenerator(cfg config.ExplainConfig, log *logrus.Logger) Generator {
	template := NewTemplateGenerator()

	var base Generator = template
	if cfg.Enabled && cfg.URL != "" {
		base = NewHTTPGenerator(cfg, template, log)
	}

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return NewCachingGenerator(base, ttl)
}
