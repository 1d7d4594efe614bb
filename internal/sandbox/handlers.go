package sandbox

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminsuite/adminctl/internal/core/domain"
)

// Handlers serves the backend contract: FastAPI-style {detail} errors on the
// auth group, {success, message, data} envelopes on the users group.
type Handlers struct {
	store       *Store
	jwtSecret   string
	tokenTTL    time.Duration
	environment string
	logger      zerolog.Logger
}

func NewHandlers(store *Store, jwtSecret string, tokenTTL time.Duration, environment string, logger zerolog.Logger) *Handlers {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handlers{
		store:       store,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		environment: environment,
		logger:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	LastName string `json:"lastName"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin moderator user"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"lastName"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin moderator user"`
	IsActive *bool   `json:"isActive"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// detailError renders the auth-group error shape.
func detailError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// messageError renders the users-group error shape.
func messageError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "message": msg})
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Health{
		Status:      domain.HealthStatusHealthy,
		Environment: h.environment,
		Database:    domain.DatabaseConnected,
		DBProvider:  "memory",
	})
}

func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return detailError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return detailError(c, http.StatusUnprocessableEntity, err.Error())
	}

	// The contract's username field carries the account email.
	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		LoginsTotal.WithLabelValues("failure").Inc()
		return detailError(c, http.StatusUnauthorized, "Credenciales incorrectas")
	}

	return h.issueSession(c, user)
}

func (h *Handlers) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return detailError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return detailError(c, http.StatusUnprocessableEntity, err.Error())
	}

	// No real OAuth exchange here: any non-empty code maps onto a stable
	// sandbox identity.
	user, err := h.store.FindOrCreateByEmail("google.user@example.com", "Google User", domain.RoleUser)
	if err != nil {
		LoginsTotal.WithLabelValues("failure").Inc()
		return detailError(c, http.StatusUnauthorized, "could not authenticate with Google")
	}

	return h.issueSession(c, user)
}

func (h *Handlers) issueSession(c echo.Context, user *domain.User) error {
	token, err := h.signToken(user)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign token")
		return detailError(c, http.StatusInternalServerError, "could not create session")
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.tokenTTL),
	})

	LoginsTotal.WithLabelValues("success").Inc()
	h.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("session issued")

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        *user,
	})
}

func (h *Handlers) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}

func (h *Handlers) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return detailError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return detailError(c, http.StatusUnprocessableEntity, err.Error())
	}

	token, err := h.store.CreateResetToken(req.Email)
	if err != nil {
		// Whether the address exists is not disclosed.
		h.logger.Debug().Str("email", req.Email).Msg("reset requested for unknown address")
	} else {
		// There is no mailer in the sandbox; the token goes to the log.
		h.logger.Info().Str("email", req.Email).Str("token", token).Msg("reset token issued")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "if the address exists, a recovery link has been sent",
	})
}

func (h *Handlers) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return detailError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return detailError(c, http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.store.ResetPassword(req.Token, req.NewPassword); err != nil {
		return detailError(c, http.StatusBadRequest, "invalid or expired recovery token")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handlers) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "users loaded",
		Data:    h.store.List(),
	})
}

func (h *Handlers) Me(c echo.Context) error {
	userID, _ := c.Get(ctxUserID).(string)
	user, err := h.store.Get(userID)
	if err != nil {
		return messageError(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "ok", Data: user})
}

func (h *Handlers) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return messageError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return messageError(c, http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.store.Create(domain.User{
		Email:    req.Email,
		Name:     req.Name,
		LastName: req.LastName,
		Role:     req.Role,
		IsActive: true,
	}, req.Password)
	if err != nil {
		UserMutationsTotal.WithLabelValues("create", "failure").Inc()
		if errors.Is(err, domain.ErrUserExists) {
			return messageError(c, http.StatusConflict, "a user with that email already exists")
		}
		return messageError(c, http.StatusInternalServerError, "could not create user")
	}

	UserMutationsTotal.WithLabelValues("create", "success").Inc()
	return c.JSON(http.StatusCreated, envelope{Success: true, Message: "user created", Data: user})
}

func (h *Handlers) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return messageError(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return messageError(c, http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.store.Update(c.Param("id"), req.Name, req.LastName, req.Role, req.IsActive)
	if err != nil {
		UserMutationsTotal.WithLabelValues("update", "failure").Inc()
		return messageError(c, http.StatusNotFound, "user not found")
	}

	UserMutationsTotal.WithLabelValues("update", "success").Inc()
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "user updated", Data: user})
}

func (h *Handlers) DeleteUser(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		UserMutationsTotal.WithLabelValues("delete", "failure").Inc()
		return messageError(c, http.StatusNotFound, "user not found")
	}
	UserMutationsTotal.WithLabelValues("delete", "success").Inc()
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "user deleted"})
}
