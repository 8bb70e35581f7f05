package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
)

type services struct {
	books    service.BookService
	lending  service.LendingService
	accounts service.AccountService
}

func newServices(cfg *config.Config, store repository.Store, reserver *repository.RedisIDReserver, logger *slog.Logger) services {
	opts := []service.AllocatorOption{
		service.WithIDSpace(cfg.IDSpace),
		service.WithMaxAttempts(cfg.IDMaxAttempts),
	}
	if reserver != nil {
		opts = append(opts, service.WithReserver(reserver))
	}

	lending := service.NewLendingService(store, logger)
	return services{
		books:    service.NewBookService(store, service.NewIDAllocator("books", store.Books().Exists, opts...), logger),
		lending:  lending,
		accounts: service.NewAccountService(store, lending, service.NewIDAllocator("users", store.Users().Exists, opts...), logger),
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger, svc services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	{
		handler.NewBookHandler(svc.books, svc.lending, cfg.RequestTimeout).RegisterRoutes(api.Group("/books"))
		handler.NewUserHandler(svc.accounts, svc.lending, cfg.RequestTimeout).RegisterRoutes(api.Group("/users"))
	}
	return r
}
