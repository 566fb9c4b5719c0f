package fooddata

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bububa/platelens/tools"
)

type Option func(*Config)

// WithToolOptions applies generic tool options (title, description, hooks).
func WithToolOptions(opts ...tools.Option) Option {
	return func(c *Config) {
		for _, opt := range opts {
			opt(&c.Config)
		}
	}
}

func WithAPIKey(apiKey string) Option {
	return func(c *Config) {
		c.apiKey = apiKey
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

func WithPageSize(n int) Option {
	return func(c *Config) {
		c.pageSize = n
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

func WithCache(cache *Cache) Option {
	return func(c *Config) {
		c.cache = cache
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}
