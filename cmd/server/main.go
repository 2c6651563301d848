package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/dragchess-backend/internal/controller"
	"github.com/benbeisheim/dragchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Flags fall back to environment variables.
	addr := flag.String("addr", getenv("DRAGCHESS_ADDR", ":3000"), "listen address")
	origins := flag.String("origins", getenv("DRAGCHESS_ALLOWED_ORIGINS", "http://localhost:5173"), "comma-separated origins allowed for CORS and websockets")
	logLevel := flag.String("log-level", getenv("DRAGCHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	flag.Parse()

	level, ok := parseLevel(*logLevel)
	if !ok {
		log.Fatalf("invalid log level %q", *logLevel)
	}
	log.SetLevel(level)

	allowed := splitCSV(*origins)

	app := fiber.New(fiber.Config{
		AppName:               "dragchess",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowed, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)
	controller.SetupRoutes(app, gameService, allowed)

	go func() {
		log.Infof("listening on %s", *addr)
		if err := app.Listen(*addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	if err := gameService.Shutdown(); err != nil {
		log.Warnf("closing connections: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, true
	case "debug":
		return log.LevelDebug, true
	case "info":
		return log.LevelInfo, true
	case "warn":
		return log.LevelWarn, true
	case "error":
		return log.LevelError, true
	}
	return log.LevelInfo, false
}
