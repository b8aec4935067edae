package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
	"github.com/coffeebase/coffeebase-api/internal/product"
	"github.com/coffeebase/coffeebase-api/internal/review"
)

// listMenuHandler godoc
// @Summary List the active catalog
// @Tags menu
// @Produce json
// @Param category query string false "category filter"
// @Param search query string false "name substring"
// @Success 200 {array} product.Product
// @Router /menu [get]
func listMenuHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context(), product.Query{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		})
		if err != nil {
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not list products", err))
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// searchMenuHandler godoc
// @Summary Search and filter the catalog
// @Tags menu
// @Produce json
// @Param q query string false "name substring"
// @Param category query string false "category filter"
// @Param minPrice query string false "inclusive lower price bound"
// @Param maxPrice query string false "inclusive upper price bound"
// @Param sortBy query string false "name or price"
// @Success 200 {object} product.ListResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /menu/search [get]
func searchMenuHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Search:   c.Query("q"),
			Category: c.Query("category"),
			SortBy:   c.DefaultQuery("sortBy", "name"),
			Limit:    atoiDefault(c.Query("limit"), 0),
			Offset:   atoiDefault(c.Query("offset"), 0),
		}
		if q.SortBy != "name" && q.SortBy != "price" {
			httpx.Error(c, apperr.New(apperr.KindValidation, "sortBy must be 'name' or 'price'"))
			return
		}
		var err error
		if q.MinPrice, err = parsePrice(c.Query("minPrice")); err != nil {
			httpx.Error(c, err)
			return
		}
		if q.MaxPrice, err = parsePrice(c.Query("maxPrice")); err != nil {
			httpx.Error(c, err)
			return
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not search products", err))
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{
			Q:      q.Search,
			Limit:  q.Limit,
			Offset: q.Offset,
			Items:  items,
		})
	}
}

// getProductHandler godoc
// @Summary Product detail
// @Tags menu
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} product.Product
// @Failure 404 {object} httpx.ErrorResponse
// @Router /menu/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Error(c, apperr.New(apperr.KindNotFound, "Product not found"))
				return
			}
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not load product", err))
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// productReviewsHandler godoc
// @Summary Public product reviews with masked reviewers
// @Tags menu
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} review.ProductReviews
// @Router /menu/{id}/reviews [get]
func productReviewsHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ForProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// createProductHandler godoc
// @Summary Create a product
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} product.Product
// @Failure 400 {object} httpx.ErrorResponse
// @Router /menu [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		if req.Name == "" || req.Price == "" {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Name and price are required"))
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Price must be a valid non-negative number"))
			return
		}
		category := req.Category
		if category == "" {
			category = "other"
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Category:    category,
			ImageURL:    req.ImageURL,
			IsActive:    true,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not create product", err))
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
// @Summary Update a product, empty fields keep their value
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Success 200 {object} product.Product
// @Failure 404 {object} httpx.ErrorResponse
// @Router /menu/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		p := &product.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}
		updatePrice := false
		if req.Price != "" {
			price, err := decimal.NewFromString(req.Price)
			if err != nil || price.IsNegative() {
				httpx.Error(c, apperr.New(apperr.KindValidation, "Price must be a valid non-negative number"))
				return
			}
			p.Price = price
			updatePrice = true
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Error(c, apperr.New(apperr.KindNotFound, "Product not found"))
				return
			}
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not update product", err))
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not reload product", err))
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler godoc
// @Summary Soft-delete a product
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpx.ErrorResponse
// @Router /menu/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.SoftDelete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, apperr.Wrap(apperr.KindDependency, "could not delete product", err))
			return
		}
		if !ok {
			httpx.Error(c, apperr.New(apperr.KindNotFound, "Product not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "Price filter must be a valid number")
	}
	return &d, nil
}

func atoiDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
