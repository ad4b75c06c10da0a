// Package router picks the configured engine.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/engine"
	"github.com/yungbote/learning-planner/internal/engine/gemini"
	"github.com/yungbote/learning-planner/internal/engine/mock"
	"github.com/yungbote/learning-planner/internal/engine/oaihttp"
)

type Route struct {
	Model       string
	Temperature float64
	Engine      engine.Engine
}

func New(ctx context.Context, cfg config.ModelConfig) (Route, error) {
	route := Route{Model: strings.TrimSpace(cfg.Model), Temperature: cfg.Temperature}
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "mock", "":
		route.Engine = mock.New()
	case "openai_http", "oai_http":
		e, err := oaihttp.New(cfg)
		if err != nil {
			return Route{}, err
		}
		route.Engine = e
	case "gemini":
		e, err := gemini.New(ctx, cfg)
		if err != nil {
			return Route{}, err
		}
		route.Engine = e
	default:
		return Route{}, fmt.Errorf("unsupported engine type %q", cfg.Engine)
	}
	return route, nil
}
