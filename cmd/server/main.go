package main

import (
	"os"
	"time"

	"moltbook/internal/db"
	"moltbook/internal/handlers"
	"moltbook/internal/router"
	"moltbook/internal/services"
	"moltbook/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	defer logger.Sync()

	gormDB, err := db.Init(logger)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	cache, err := utils.NewCache(500)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}

	audit := services.NewAuditService(gormDB, logger)
	defer audit.Close()

	votes := services.NewVoteLedger(gormDB, logger, audit)
	feed := services.NewFeedService(gormDB, logger, cache)
	posts := services.NewPostService(gormDB, logger, audit)
	submolts := services.NewSubmoltService(gormDB, logger, cache)
	follows := services.NewFollowService(gormDB, logger)

	feedHandler := handlers.NewFeedHandler(feed)
	h := router.Handlers{
		Votes:    handlers.NewVoteHandler(votes, follows),
		Feed:     feedHandler,
		Posts:    handlers.NewPostHandler(posts),
		Submolts: handlers.NewSubmoltHandler(submolts, feedHandler),
		Agents:   handlers.NewAgentHandler(follows),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	router.RegisterRoutes(r, gormDB, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("GIN_MODE") == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
