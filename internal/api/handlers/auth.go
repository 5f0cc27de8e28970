package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/devpatel-io/taskflow/internal/auth"
	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/devpatel-io/taskflow/internal/utils"
	"github.com/devpatel-io/taskflow/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	users       *repositories.UserRepository
	tokens      *auth.TokenService
	sink        monitoring.Sink
	oauth       *oauth2.Config
	frontendURL string
}

func NewAuthHandler(users *repositories.UserRepository, tokens *auth.TokenService, sink monitoring.Sink, oauth *oauth2.Config, frontendURL string) *AuthHandler {
	return &AuthHandler{
		users:       users,
		tokens:      tokens,
		sink:        sink,
		oauth:       oauth,
		frontendURL: frontendURL,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user and returns a bearer token valid for 7 days.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Email and password"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload "Validation failed or email taken"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentials
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	email, errs := validation.Registration(input.Email, input.Password)
	if len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, h.sink, err, "register_hash")
		return
	}

	user := &models.User{Email: email, Password: string(hashed)}
	// Email uniqueness is enforced by the store's unique index; a duplicate
	// insert fails here without mutating anything.
	if err := h.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			badRequest(w, "User already exists with this email")
			return
		}
		serverError(w, h.sink, err, "register_insert")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, h.sink, err, "register_token")
		return
	}

	h.sink.IncrCounter(monitoring.CounterRegistrations, 1)
	h.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "auth",
		Message:  "User registered",
		Level:    monitoring.LevelInfo,
		Data:     map[string]any{"userId": user.ID.String()},
	})

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
		Data: map[string]any{
			"token": token,
			"user":  user,
		},
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Email and password"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	user, err := h.users.FindByEmail(validation.NormalizeEmail(input.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		h.invalidCredentials(w)
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "login_lookup")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		h.invalidCredentials(w)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, h.sink, err, "login_token")
		return
	}

	h.sink.IncrCounter(monitoring.CounterLogins, 1)
	h.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "auth",
		Message:  "User logged in",
		Level:    monitoring.LevelInfo,
		Data:     map[string]any{"userId": user.ID.String()},
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"token": token,
			"user":  user,
		},
	})
}

func (h *AuthHandler) invalidCredentials(w http.ResponseWriter) {
	h.sink.IncrCounter(monitoring.CounterAuthFailures, 1)
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Invalid credentials",
	})
}

// GoogleLogin starts the OAuth flow. The state carries whether the client
// came from the login or the register page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		badRequest(w, "Google sign-in is not configured")
		return
	}

	flow := r.URL.Query().Get("redirect")
	if flow == "" {
		flow = "login"
	}

	state, err := GenerateState(map[string]string{"flow": flow})
	if err != nil {
		serverError(w, h.sink, err, "oauth_state")
		return
	}

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow: it resolves the Google-asserted
// email to a local user (creating one on the register flow) and redirects
// back to the frontend with a bearer token.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		badRequest(w, "Google sign-in is not configured")
		return
	}

	stateData, err := DecodeState(r.FormValue("state"))
	if err != nil {
		badRequest(w, "Invalid OAuth state")
		return
	}
	flow := stateData["flow"]

	exchanged, err := h.oauth.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		serverError(w, h.sink, err, "oauth_exchange")
		return
	}

	client := h.oauth.Client(r.Context(), exchanged)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		serverError(w, h.sink, err, "oauth_userinfo")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		serverError(w, h.sink, err, "oauth_userinfo_read")
		return
	}

	var googleUser struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil || googleUser.Email == "" {
		serverError(w, h.sink, errors.New("failed to parse Google user info"), "oauth_userinfo_parse")
		return
	}

	email := validation.NormalizeEmail(googleUser.Email)
	user, redirect, err := h.resolveGoogleUser(flow, email)
	if err != nil {
		serverError(w, h.sink, err, "oauth_resolve_user")
		return
	}
	if redirect != "" {
		http.Redirect(w, r, h.frontendURL+redirect, http.StatusTemporaryRedirect)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, h.sink, err, "oauth_token")
		return
	}

	h.sink.IncrCounter(monitoring.CounterLogins, 1)
	http.Redirect(w, r, h.frontendURL+"/auth/callback?token="+token, http.StatusTemporaryRedirect)
}

// resolveGoogleUser maps a Google-asserted email to a local account. It
// returns either the user or a frontend redirect path when the flow cannot
// proceed; lookup failures other than a missing record propagate as errors.
func (h *AuthHandler) resolveGoogleUser(flow, email string) (*models.User, string, error) {
	user, err := h.users.FindByEmail(email)

	switch flow {
	case "register":
		if err == nil {
			return nil, "/login?error=user_already_exists", nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, "", err
		}
		// Google-authenticated accounts carry no usable password hash.
		user = &models.User{Email: email, Password: ""}
		if err := h.users.Create(user); err != nil {
			return nil, "", err
		}
		return user, "", nil
	default:
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "/register?error=user_not_found", nil
		}
		if err != nil {
			return nil, "", err
		}
		return user, "", nil
	}
}
