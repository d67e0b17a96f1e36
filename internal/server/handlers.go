package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/catalogue"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// EffectInfo describes one effect definition.
type EffectInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Template string `json:"template"`
	Quality  int    `json:"quality,omitempty"`
	Patterns int    `json:"patterns"`
}

// CatalogueResponse is the response body for GET /api/v1/catalogue.
type CatalogueResponse struct {
	Version  int          `json:"version"`
	Matchers int          `json:"matchers"`
	Effects  []EffectInfo `json:"effects"`
	Skipped  []string     `json:"skipped,omitempty"`
	BuiltAt  *time.Time   `json:"built_at,omitempty"`
}

// MatchRequest is the request body for POST /api/v1/match.
type MatchRequest struct {
	Text string `json:"text"`
}

// MatchResponse is the response body for POST /api/v1/match.
type MatchResponse struct {
	Tip     *shrinetips.Tip    `json:"tip"`
	Groups  []shrinetips.Group `json:"groups"`
	Version int                `json:"version"`
}

// ReloadResponse is the response body for POST /api/v1/reload.
type ReloadResponse struct {
	Version  int `json:"version"`
	Effects  int `json:"effects"`
	Matchers int `json:"matchers"`
	Skipped  int `json:"skipped"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleCatalogue(c echo.Context) error {
	return c.JSON(http.StatusOK, describeCatalogue(s.store.Load()))
}

func describeCatalogue(cat *catalogue.Catalogue) CatalogueResponse {
	resp := CatalogueResponse{
		Version:  cat.Version(),
		Matchers: len(cat.Matchers()),
		Effects:  []EffectInfo{},
	}

	patterns := make(map[int]int)
	for _, m := range cat.Matchers() {
		patterns[m.Effect]++
	}
	for _, idx := range cat.Effects() {
		name, template := cat.Effect(idx)
		level, _, _ := shrinetips.SplitQuality(template)
		resp.Effects = append(resp.Effects, EffectInfo{
			Index:    idx,
			Name:     name,
			Template: template,
			Quality:  level,
			Patterns: patterns[idx],
		})
	}
	for _, pe := range cat.Skipped() {
		resp.Skipped = append(resp.Skipped, pe.Error())
	}
	if built := cat.BuiltAt(); !built.IsZero() {
		resp.BuiltAt = &built
	}
	return resp
}

func (s *Server) handleMatch(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid match request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	tip, err := shrinetips.Parse(req.Text)
	if err != nil {
		s.metrics.ParseTotal.WithLabelValues("not_tooltip").Inc()
		var pe *shrinetips.ParseError
		if errors.As(err, &pe) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, pe.Error())
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "not an item tooltip")
	}
	if !s.filter.Allows(tip.Rarity) {
		s.metrics.ParseTotal.WithLabelValues("filtered").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "rarity "+tip.Rarity+" is not classified")
	}
	s.metrics.ParseTotal.WithLabelValues("ok").Inc()

	cat := s.store.Load()
	groups := shrinetips.Match(tip, cat)
	for _, g := range groups {
		if g.Unknown {
			s.metrics.UnknownLines.Add(float64(len(g.Lines)))
		} else {
			s.metrics.MatchedLines.Add(float64(len(g.Lines)))
		}
	}

	return c.JSON(http.StatusOK, MatchResponse{
		Tip:     tip,
		Groups:  groups,
		Version: cat.Version(),
	})
}

func (s *Server) handleReload(c echo.Context) error {
	if s.reloader == nil || s.limiter == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "reload is disabled")
	}
	if !s.limiter.Allow() {
		return echo.NewHTTPError(http.StatusTooManyRequests, "reload rate limit exceeded")
	}

	cat, err := s.reloader.Reload(c.Request().Context())
	if err != nil {
		s.logger.Warn("reload request failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "reload failed").SetInternal(err)
	}

	return c.JSON(http.StatusOK, ReloadResponse{
		Version:  cat.Version(),
		Effects:  cat.Len(),
		Matchers: len(cat.Matchers()),
		Skipped:  len(cat.Skipped()),
	})
}
