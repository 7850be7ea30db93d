package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/synblog"
	"github.com/eringen/synblog/views"
)

func configFromEnv() synblog.SiteConfig {
	return synblog.SiteConfig{
		Name:         synblog.EnvOr("SITE_NAME", "Blog"),
		URL:          synblog.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:  os.Getenv("SITE_DESCRIPTION"),
		Author:       os.Getenv("SITE_AUTHOR"),
		Addr:         synblog.EnvOr("ADDR", ":3000"),
		DatabasePath: synblog.EnvOr("DATABASE_PATH", "data/blog.db"),
		PostsDir:     os.Getenv("POSTS_DIR"),
		CookieSecure: synblog.EnvBool("COOKIE_SECURE", false),
		PostCacheTTL: synblog.EnvDuration("POST_CACHE_TTL", 5*time.Minute),
		LogLevel:     synblog.EnvOr("LOG_LEVEL", "info"),
	}
}

func runServe() error {
	cfg := configFromEnv()
	cfg.AdminPassword = synblog.MustEnv("ADMIN_PASSWORD")
	cfg.SessionSecret = synblog.MustEnv("ADMIN_SESSION_SECRET")

	app := synblog.New(cfg, views.Default())
	defer app.Close()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
