package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
	"github.com/coffeebase/coffeebase-api/internal/user"
)

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUpHandler godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} user.AuthResult
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /auth/signup [post]
func signUpHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		res, err := svc.SignUp(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// loginHandler godoc
// @Summary Obtain a session token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} user.AuthResult
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func loginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// adminLoginHandler godoc
// @Summary Obtain a session token, admin accounts only
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} user.AuthResult
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /auth/admin/login [post]
func adminLoginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, apperr.New(apperr.KindValidation, "Invalid request body"))
			return
		}
		res, err := svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// profileHandler godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} user.Profile
// @Failure 404 {object} httpx.ErrorResponse
// @Router /auth/me [get]
func profileHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := auth.Caller(c)
		p, err := svc.Profile(c.Request.Context(), userID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// logoutHandler acknowledges logout. Tokens are stateless, dropping the
// token client-side is the whole operation.
func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}
