package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AnalyticsController struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// Dashboard returns the four chart series.
func (h *AnalyticsController) Dashboard(c *ctx.Context) {
	d, err := h.analytics.Dashboard(c.Context())
	if err != nil {
		c.ServerError("analytics: dashboard", err)
		return
	}
	c.Render("analytics_dashboard", d)
}
