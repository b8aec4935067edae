package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/coffeebase/coffeebase-api/docs"
	"github.com/coffeebase/coffeebase-api/internal/analytics"
	"github.com/coffeebase/coffeebase-api/internal/auth"
	"github.com/coffeebase/coffeebase-api/internal/config"
	"github.com/coffeebase/coffeebase-api/internal/order"
	"github.com/coffeebase/coffeebase-api/internal/payment"
	"github.com/coffeebase/coffeebase-api/internal/product"
	"github.com/coffeebase/coffeebase-api/internal/review"
	"github.com/coffeebase/coffeebase-api/internal/user"
)

// @title Coffee Base API
// @version 1.0
// @description E-commerce ordering API for the Coffee Base storefront.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	userRepo := user.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool)

	app := &App{
		Cfg:       cfg,
		Tokens:    tokens,
		Users:     user.NewService(userRepo, tokens),
		Products:  product.NewPGRepo(pool),
		Orders:    order.NewService(orderRepo, payment.NewGateway(cfg.Payments, userRepo)),
		Reviews:   review.NewService(review.NewPGRepo(pool), orderRepo),
		Analytics: analytics.NewService(orderRepo),
	}

	r := SetupRouter(app)
	log.Printf("Coffee Base API listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
