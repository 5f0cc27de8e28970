package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/devpatel-io/taskflow/internal/api/middleware"
	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/devpatel-io/taskflow/internal/utils"
	"github.com/devpatel-io/taskflow/internal/validation"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profiles *repositories.ProfileRepository
	todos    *repositories.TodoRepository
	avatars  *repositories.AvatarStore
	sink     monitoring.Sink
}

func NewProfileHandler(profiles *repositories.ProfileRepository, todos *repositories.TodoRepository, avatars *repositories.AvatarStore, sink monitoring.Sink) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, todos: todos, avatars: avatars, sink: sink}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Description Creates the default profile on first access.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/profile/me [get]
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	scoped := h.profiles.ForOwner(user.ID)

	profile, err := scoped.GetOrCreate(user.Email)
	if err != nil {
		serverError(w, h.sink, err, "profile_get")
		return
	}

	profile.Stats.LastActive = time.Now()
	if err := scoped.Save(profile); err != nil {
		serverError(w, h.sink, err, "profile_touch")
		return
	}

	h.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "profile",
		Message:  "User profile retrieved",
		Level:    monitoring.LevelInfo,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    profile,
	})
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Description Applies only the fields present in the payload; nested
// @Description preferences, social links and privacy blocks merge field by field.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/profile/me [put]
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input validation.ProfileUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	if errs := validation.ProfileUpdate(&input); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	scoped := h.profiles.ForOwner(user.ID)
	profile, err := scoped.GetOrCreate(user.Email)
	if err != nil {
		serverError(w, h.sink, err, "profile_update_load")
		return
	}

	applyProfileUpdate(profile, &input)

	if err := scoped.Save(profile); err != nil {
		serverError(w, h.sink, err, "profile_update_save")
		return
	}

	h.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "profile",
		Message:  "User profile updated",
		Level:    monitoring.LevelInfo,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile updated successfully",
		Data:    profile,
	})
}

// Stats godoc
// @Summary Get the authenticated user's todo statistics
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Router /api/profile/stats [get]
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	total, completed, err := h.todos.ForOwner(user.ID).Counts()
	if err != nil {
		serverError(w, h.sink, err, "stats_counts")
		return
	}

	scoped := h.profiles.ForOwner(user.ID)
	profile, err := scoped.GetOrCreate(user.Email)
	if err != nil {
		serverError(w, h.sink, err, "stats_profile")
		return
	}

	profile.Stats.TotalTodos = int(total)
	profile.Stats.CompletedTodos = int(completed)
	profile.Stats.LastActive = time.Now()
	if err := scoped.Save(profile); err != nil {
		serverError(w, h.sink, err, "stats_save")
		return
	}

	completionRate := 0
	if total > 0 {
		completionRate = int(float64(completed)/float64(total)*100 + 0.5)
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data: map[string]any{
			"totalTodos":     total,
			"completedTodos": completed,
			"pendingTodos":   total - completed,
			"completionRate": completionRate,
			"streakDays":     profile.Stats.StreakDays,
			"lastActive":     profile.Stats.LastActive,
		},
	})
}

// UpdateAvatar godoc
// @Summary Set the avatar URL
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload "Missing avatar URL"
// @Router /api/profile/avatar [put]
func (h *ProfileHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input struct {
		AvatarURL string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.AvatarURL == "" {
		badRequest(w, "Avatar URL is required")
		return
	}

	scoped := h.profiles.ForOwner(user.ID)
	profile, err := scoped.GetOrCreate(user.Email)
	if err != nil {
		serverError(w, h.sink, err, "avatar_load")
		return
	}

	profile.Avatar = input.AvatarURL
	if err := scoped.Save(profile); err != nil {
		serverError(w, h.sink, err, "avatar_save")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Avatar updated successfully",
		Data:    map[string]any{"avatar": profile.Avatar},
	})
}

// PresignAvatar godoc
// @Summary Get a presigned URL for direct avatar upload
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 503 {object} utils.Payload "Avatar storage not configured"
// @Router /api/profile/avatar/presign [post]
func (h *ProfileHandler) PresignAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if h.avatars == nil {
		utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
			Success: false,
			Message: "Avatar storage is not configured",
		})
		return
	}

	key := "avatars/" + user.ID.String() + "/" + uuid.NewString()
	uploadURL, publicURL, err := h.avatars.PresignUpload(r.Context(), key, 15*time.Minute)
	if err != nil {
		serverError(w, h.sink, err, "avatar_presign")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data: map[string]any{
			"uploadUrl": uploadURL,
			"publicUrl": publicURL,
			"expiresIn": "15m",
		},
	})
}

// UpdatePreferences godoc
// @Summary Merge-update the preferences block
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/profile/preferences [put]
func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input struct {
		Preferences *validation.PreferencesInput `json:"preferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Preferences == nil {
		badRequest(w, "Preferences object is required")
		return
	}

	if errs := validation.ProfileUpdate(&validation.ProfileUpdateInput{Preferences: input.Preferences}); len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	scoped := h.profiles.ForOwner(user.ID)
	profile, err := scoped.GetOrCreate(user.Email)
	if err != nil {
		serverError(w, h.sink, err, "preferences_load")
		return
	}

	mergePreferences(&profile.Preferences, input.Preferences)

	if err := scoped.Save(profile); err != nil {
		serverError(w, h.sink, err, "preferences_save")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Preferences updated successfully",
		Data:    profile.Preferences,
	})
}

// DeleteMe godoc
// @Summary Delete the authenticated user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/profile/me [delete]
func (h *ProfileHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	err := h.profiles.ForOwner(user.ID).Delete()
	if errors.Is(err, repositories.ErrNotFound) {
		notFound(w, "Profile not found")
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "profile_delete")
		return
	}

	h.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "profile",
		Message:  "User profile deleted",
		Level:    monitoring.LevelWarning,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile deleted successfully",
	})
}

// Public godoc
// @Summary Get another user's public profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Owner user id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload "Profile is private"
// @Failure 404 {object} utils.Payload
// @Router /api/profile/{userId} [get]
func (h *ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		notFound(w, "Profile not found")
		return
	}

	profile, err := h.profiles.Lookup(ownerID)
	if errors.Is(err, repositories.ErrNotFound) {
		notFound(w, "Profile not found")
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "profile_public")
		return
	}

	if profile.Privacy.ProfileVisibility == models.VisibilityPrivate {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Profile is private",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    profile.Public(),
	})
}

// applyProfileUpdate copies every present field onto the profile. Nested
// blocks merge one field at a time so an omitted field keeps its value.
func applyProfileUpdate(profile *models.UserProfile, in *validation.ProfileUpdateInput) {
	if in.FirstName != nil {
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = *in.LastName
	}
	if in.DisplayName != nil {
		profile.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Phone != nil {
		profile.Phone = *in.Phone
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.Preferences != nil {
		mergePreferences(&profile.Preferences, in.Preferences)
	}
	if in.SocialLinks != nil {
		mergeSocialLinks(&profile.SocialLinks, in.SocialLinks)
	}
	if in.Privacy != nil {
		mergePrivacy(&profile.Privacy, in.Privacy)
	}
}

func mergePreferences(dst *models.Preferences, in *validation.PreferencesInput) {
	if in.Theme != nil {
		dst.Theme = *in.Theme
	}
	if in.Language != nil {
		dst.Language = *in.Language
	}
	if in.Timezone != nil {
		dst.Timezone = *in.Timezone
	}
	if in.EmailNotifications != nil {
		dst.EmailNotifications = *in.EmailNotifications
	}
	if in.PushNotifications != nil {
		dst.PushNotifications = *in.PushNotifications
	}
	if in.TodoReminders != nil {
		dst.TodoReminders = *in.TodoReminders
	}
}

func mergeSocialLinks(dst *models.SocialLinks, in *validation.SocialLinksInput) {
	if in.Github != nil {
		dst.Github = *in.Github
	}
	if in.Linkedin != nil {
		dst.Linkedin = *in.Linkedin
	}
	if in.Twitter != nil {
		dst.Twitter = *in.Twitter
	}
	if in.Instagram != nil {
		dst.Instagram = *in.Instagram
	}
}

func mergePrivacy(dst *models.Privacy, in *validation.PrivacyInput) {
	if in.ProfileVisibility != nil {
		dst.ProfileVisibility = *in.ProfileVisibility
	}
	if in.ShowStats != nil {
		dst.ShowStats = *in.ShowStats
	}
	if in.AllowMessages != nil {
		dst.AllowMessages = *in.AllowMessages
	}
}
