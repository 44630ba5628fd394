package transport

import (
	"net/http"

	"feira-hub/internal/domain"
	"feira-hub/internal/middleware"
	"feira-hub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=consumer producer"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Address   string `json:"address"`
	StoreName string `json:"store_name"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateAvatarRequest represents the avatar update payload
type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

// UpdatePasswordRequest represents the password change payload
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// UserResponse wraps a user entity with a human-readable message
type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			if rateLimiter != nil {
				r.Use(rateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Get("/producer/{producerId}", h.GetPublicProducerInfo)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Put("/{userId}/avatar", h.UpdateAvatar)
			r.Put("/{userId}/password", h.UpdatePassword)
		})
	})
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		Phone:     req.Phone,
		City:      req.City,
		Address:   req.Address,
		StoreName: req.StoreName,
	})
	if err != nil {
		h.logger.Debug("Registration failed", zap.Error(err))
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, UserResponse{
		Message: "user registered successfully",
		User:    user,
	})
}

// Login handles user authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	accessToken, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Message:     "login successful",
		AccessToken: accessToken,
		User:        user,
	})
}

// GetPublicProducerInfo handles the public producer profile lookup
func (h *UserHandler) GetPublicProducerInfo(w http.ResponseWriter, r *http.Request) {
	producerID, err := uuid.Parse(chi.URLParam(r, "producerId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid producer ID")
		return
	}

	info, err := h.userService.GetPublicProducerInfo(r.Context(), producerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, info)
}

// UpdateAvatar handles the avatar URL update
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid user ID")
		return
	}

	var req UpdateAvatarRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	user, err := h.userService.UpdateAvatar(r.Context(), userID, req.AvatarURL)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserResponse{
		Message: "avatar updated successfully",
		User:    user,
	})
}

// UpdatePassword handles the password change
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid user ID")
		return
	}

	var req UpdatePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeInvalidArgument, "invalid request body")
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}
