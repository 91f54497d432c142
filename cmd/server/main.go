package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"restaurantapi/internal/config"
	"restaurantapi/internal/events"
	"restaurantapi/internal/httpserver"
	"restaurantapi/internal/logging"
	authmw "restaurantapi/internal/middleware/auth"
	"restaurantapi/internal/repo"
	"restaurantapi/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = events.NewProducer(
			[]string{configuration.KAFKA_ADDRESS},
			[]string{events.TopicOrderEvents, events.TopicMenuEvents},
		)
		if err != nil {
			log.Fatal(err)
		}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	r := repo.New(db)
	authSvc := &service.AuthService{Repo: r, JWTSecret: jwtSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHandler{Svc: authSvc},
		MenuHandler:  &httpserver.MenuHandler{Svc: &service.CatalogService{Repo: r}, Producer: producer},
		CartHandler:  &httpserver.CartHandler{Svc: &service.CartService{Repo: r}},
		OrderHandler: &httpserver.OrderHandler{Svc: &service.OrderService{Repo: r}, Producer: producer},
		GroupHandler: &httpserver.GroupHandler{Svc: &service.GroupService{Repo: r}},
		AuthMW:       &authmw.Middleware{Auth: authSvc, JWTSecret: jwtSecret},
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
