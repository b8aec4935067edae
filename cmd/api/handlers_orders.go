package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
	"github.com/coffeebase/coffeebase-api/internal/order"
	"github.com/coffeebase/coffeebase-api/internal/review"
)

// createOrderHandler godoc
// @Summary Checkout the cart snapshot
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} order.Order
// @Failure 400 {object} httpx.ErrorResponse
// @Router /orders [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		userID, _ := auth.Caller(c)
		o, err := svc.Create(c.Request.Context(), userID, req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// listMyOrdersHandler godoc
// @Summary Caller's order history
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "status filter"
// @Param page query int false "1-based page"
// @Param limit query int false "page size"
// @Success 200 {array} order.Order
// @Router /orders [get]
func listMyOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.Caller(c)
		out, err := svc.ListForUser(c.Request.Context(), userID, orderFilter(c))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// listAllOrdersHandler godoc
// @Summary All orders (admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} order.Order
// @Router /orders/admin/all [get]
func listAllOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ListAll(c.Request.Context(), orderFilter(c))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler godoc
// @Summary Order tracking, owner or admin
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} order.Order
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role := auth.Caller(c)
		o, err := svc.Get(c.Request.Context(), c.Param("id"), userID, role)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// payOrderHandler godoc
// @Summary Pay an order, owner only, ordered state only
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} order.PaymentResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /orders/{id}/payment [post]
func payOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		userID, _ := auth.Caller(c)
		res, err := svc.Pay(c.Request.Context(), c.Param("id"), userID, req.PaymentMethod, req.PaymentData)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// updateOrderStatusHandler godoc
// @Summary Set order status (admin)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} order.Order
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /orders/{id}/status [put]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// addReviewHandler godoc
// @Summary Review a product from a paid order, owner only
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 201 {object} review.Review
// @Failure 409 {object} httpx.ErrorResponse
// @Router /orders/{id}/review [post]
func addReviewHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req review.AddReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		userID, _ := auth.Caller(c)
		rv, err := svc.Add(c.Request.Context(), c.Param("id"), userID, req.ProductID, req.Rating, req.Comment)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, rv)
	}
}

func orderFilter(c *gin.Context) order.Filter {
	return order.Filter{
		Status: c.Query("status"),
		Page:   atoiDefault(c.Query("page"), 1),
		Limit:  atoiDefault(c.Query("limit"), 0),
	}
}
