package api

import (
	"net/http"

	_ "github.com/devpatel-io/taskflow/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/devpatel-io/taskflow/internal/api/handlers"
	"github.com/devpatel-io/taskflow/internal/api/middleware"
	"github.com/devpatel-io/taskflow/internal/auth"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/devpatel-io/taskflow/internal/utils"
	"github.com/rs/cors"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Deps carries everything the router wires together. Sink and Avatars may be
// absent; OAuth nil disables Google sign-in.
type Deps struct {
	DB          *gorm.DB
	Tokens      *auth.TokenService
	Sink        monitoring.Sink
	Avatars     *repositories.AvatarStore
	OAuth       *oauth2.Config
	FrontendURL string
	Cors        cors.Options
}

func SetupRouter(d Deps) http.Handler {
	if d.Sink == nil {
		d.Sink = monitoring.NopSink{}
	}

	users := repositories.NewUserRepository(d.DB)
	todos := repositories.NewTodoRepository(d.DB)
	profiles := repositories.NewProfileRepository(d.DB)

	authHandler := handlers.NewAuthHandler(users, d.Tokens, d.Sink, d.OAuth, d.FrontendURL)
	todoHandler := handlers.NewTodoHandler(todos, d.Sink)
	profileHandler := handlers.NewProfileHandler(profiles, todos, d.Avatars, d.Sink)
	authenticator := middleware.NewAuthenticator(d.Tokens, users, d.Sink)

	generalLimiter := middleware.GeneralLimiter()
	authLimiter := middleware.AuthLimiter()
	todoCreateLimiter := middleware.TodoCreateLimiter()

	mainMux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Server is healthy",
		})
	})

	mainMux.Handle("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /register", authHandler.Register)
	authMux.HandleFunc("POST /login", authHandler.Login)
	authMux.HandleFunc("GET /google/login", authHandler.GoogleLogin)
	authMux.HandleFunc("GET /google/callback", authHandler.GoogleCallback)

	mainMux.Handle("/api/auth/",
		http.StripPrefix("/api/auth", authLimiter.Middleware(authMux)),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /todos", todoHandler.List)
	protectedMux.Handle("POST /todos",
		todoCreateLimiter.Middleware(http.HandlerFunc(todoHandler.Create)))
	protectedMux.HandleFunc("GET /todos/{id}", todoHandler.Get)
	protectedMux.HandleFunc("PUT /todos/{id}", todoHandler.Update)
	protectedMux.HandleFunc("DELETE /todos/{id}", todoHandler.Delete)

	protectedMux.HandleFunc("GET /profile/me", profileHandler.Me)
	protectedMux.HandleFunc("PUT /profile/me", profileHandler.UpdateMe)
	protectedMux.HandleFunc("DELETE /profile/me", profileHandler.DeleteMe)
	protectedMux.HandleFunc("GET /profile/stats", profileHandler.Stats)
	protectedMux.HandleFunc("PUT /profile/avatar", profileHandler.UpdateAvatar)
	protectedMux.HandleFunc("POST /profile/avatar/presign", profileHandler.PresignAvatar)
	protectedMux.HandleFunc("PUT /profile/preferences", profileHandler.UpdatePreferences)
	protectedMux.HandleFunc("GET /profile/{userId}", profileHandler.Public)

	mainMux.Handle("/api/",
		http.StripPrefix(
			"/api",
			generalLimiter.Middleware(authenticator.Middleware(protectedMux)),
		),
	)

	// ---------- 404 FALLTHROUGH ----------
	mainMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Route not found",
		})
	})

	c := cors.New(d.Cors)
	handler := c.Handler(mainMux)
	handler = middleware.Metrics(d.Sink)(handler)
	handler = middleware.Logger(handler)
	return handler
}
