package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/analytics"
	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
)

// statisticsHandler godoc
// @Summary Revenue, order count and top products over a window
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(day)
// @Param startDate query string false "explicit window start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "explicit window end"
// @Success 200 {object} analytics.Statistics
// @Router /analytics/statistics [get]
func statisticsHandler(svc *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		period, err := parsePeriod(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		start, end, err := parseWindow(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := svc.Statistics(c.Request.Context(), period, start, end)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// revenueHandler godoc
// @Summary Revenue total and daily breakdown
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Revenue
// @Router /analytics/revenue [get]
func revenueHandler(svc *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		period, err := parsePeriod(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		start, end, err := parseWindow(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := svc.Revenue(c.Request.Context(), period, start, end)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// topProductsHandler godoc
// @Summary Top selling products by quantity
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(day)
// @Param limit query int false "max products returned" default(10)
// @Success 200 {array} analytics.TopProduct
// @Router /analytics/top-products [get]
func topProductsHandler(svc *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		period, err := parsePeriod(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := svc.TopProducts(c.Request.Context(), period, atoiDefault(c.Query("limit"), 10))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []analytics.TopProduct{}
		}
		c.JSON(http.StatusOK, out)
	}
}

func parsePeriod(c *gin.Context) (string, error) {
	period := c.DefaultQuery("period", analytics.PeriodDay)
	switch period {
	case analytics.PeriodDay, analytics.PeriodWeek, analytics.PeriodMonth:
		return period, nil
	}
	return "", apperr.New(apperr.KindValidation, "Period must be day, week or month")
}

func parseWindow(c *gin.Context) (start, end *time.Time, err error) {
	if start, err = parseDate(c.Query("startDate")); err != nil {
		return nil, nil, err
	}
	if end, err = parseDate(c.Query("endDate")); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.New(apperr.KindValidation, "Dates must be RFC 3339 or YYYY-MM-DD")
}
