// Package extraction turns raw plan documents into loosely-structured JSON.
// Providers are external collaborators behind a narrow contract; the pipeline
// treats their output as untrusted and sanitizes it downstream.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/romuloroldao/Black-House-sub001/logger"
)

// Provider extracts a loosely-structured payload from plan text. The returned
// map is raw extractor output; callers must sanitize it.
type Provider interface {
	Name() string
	Extract(ctx context.Context, text string) (map[string]any, error)
}

// Chain tries providers in order and returns the first success. All failures
// are surfaced together when every provider misses.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Extract returns the first successful result along with the name of the
// provider that produced it.
func (c *Chain) Extract(ctx context.Context, text string) (map[string]any, string, error) {
	if len(c.providers) == 0 {
		return nil, "", fmt.Errorf("no extraction providers configured")
	}
	var failures []string
	for _, p := range c.providers {
		result, err := p.Extract(ctx, text)
		if err == nil {
			return result, p.Name(), nil
		}
		logger.Warn("extraction provider failed", "provider", p.Name(), "error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
	}
	return nil, "", fmt.Errorf("all extraction providers failed: %s", strings.Join(failures, "; "))
}
