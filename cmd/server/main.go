package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/devpatel-io/taskflow/internal/api"
	"github.com/devpatel-io/taskflow/internal/auth"
	"github.com/devpatel-io/taskflow/internal/config"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// @title TaskFlow API
// @version 1.0
// @description Multi-tenant todo service with bearer-token auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Envs

	db := repositories.ConnectDatabase(cfg.DBURL)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenLifetime)

	email := monitoring.NewEmailNotifier(monitoring.EmailConfig(cfg.Email))
	notifier := monitoring.NewNotifier(monitoring.WebhookConfig(cfg.Webhooks), email)
	monitor := monitoring.NewMonitor(notifier)
	monitor.StartResetLoop(context.Background(), time.Hour)

	var avatars *repositories.AvatarStore
	if cfg.R2.AccessKeyID != "" {
		avatars = repositories.NewAvatarStore(
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			cfg.R2.AccountID,
			cfg.R2.BucketName,
			cfg.R2.Region,
			cfg.R2.PublicBaseURL,
		)
	}

	var oauthCfg *oauth2.Config
	if cfg.GoogleOAuth.ClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleOAuth.ClientID,
			ClientSecret: cfg.GoogleOAuth.ClientSecret,
			RedirectURL:  cfg.GoogleOAuth.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		}
	}

	handler := api.SetupRouter(api.Deps{
		DB:          db,
		Tokens:      tokens,
		Sink:        monitor,
		Avatars:     avatars,
		OAuth:       oauthCfg,
		FrontendURL: cfg.FrontendURL,
		Cors:        cfg.CorsConfig,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting TaskFlow server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
