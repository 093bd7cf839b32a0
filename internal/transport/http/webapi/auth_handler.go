package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studenthub-server-go/internal/domain/audit"
	"studenthub-server-go/internal/domain/auth"
	"studenthub-server-go/internal/domain/auth/denylist"
	"studenthub-server-go/internal/domain/eventbus"
	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
	"studenthub-server-go/internal/platform/logging"
	"studenthub-server-go/internal/platform/metrics"
	"studenthub-server-go/internal/platform/storage"
	httptransport "studenthub-server-go/internal/transport/http"
)

// uniformLoginFailure is the single message every credential failure
// produces. Byte-identical across unknown email, wrong password and
// inactive account.
const uniformLoginFailure = "Invalid email or password"

// AuthHandlers serves registration, login, logout and profile endpoints.
type AuthHandlers struct {
	login   *auth.Service
	hasher  *auth.PasswordHasher
	users   *storage.UserRepository
	roles   *storage.RoleRepository
	revoked denylist.Store
	bus     *eventbus.Bus
	logger  *logging.Logger
}

func NewAuthHandlers(
	login *auth.Service,
	hasher *auth.PasswordHasher,
	users *storage.UserRepository,
	roles *storage.RoleRepository,
	revoked denylist.Store,
	bus *eventbus.Bus,
	logger *logging.Logger,
) *AuthHandlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthHandlers{
		login:   login,
		hasher:  hasher,
		users:   users,
		roles:   roles,
		revoked: revoked,
		bus:     bus,
		logger:  logger,
	}
}

// Register mounts the handlers. Login and registration are public; logout
// and profile require a verified token.
func (h *AuthHandlers) Register(public, secured *gin.RouterGroup) {
	public.POST("/auth/login", h.handleLogin)
	public.POST("/auth/register", h.handleRegister)
	if secured != nil {
		secured.POST("/auth/logout", h.handleLogout)
		secured.GET("/auth/profile", h.handleProfile)
	}
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries a new account. Password policy is enforced here,
// at registration time, not again at login.
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=100"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    uint    `json:"role_id" binding:"required"`
}

// UserResponse is the outward shape of an account. The password hash has no
// field here at all.
type UserResponse struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	RoleID    uint    `json:"role_id"`
	IsActive  bool    `json:"is_active"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RoleID:    user.RoleID,
		IsActive:  user.IsActive,
	}
}

func (h *AuthHandlers) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "Validation failed",
			gin.H{"error": err.Error()})
		return
	}

	session, err := h.login.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.IsKind(err, errors.KindAuth):
			h.logger.WarnTag("AUTH", "login attempt with invalid credentials: %s", req.Email)
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonCredentials).Inc()
			httptransport.RespondError(c, http.StatusUnauthorized, uniformLoginFailure, nil)
		case errors.IsKind(err, errors.KindConfig):
			h.logger.ErrorTag("AUTH", "login unavailable: %v", err)
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonConfig).Inc()
			httptransport.RespondError(c, http.StatusInternalServerError, "Server configuration error", nil)
		default:
			h.logger.ErrorTag("AUTH", "login failed: %v", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "Authentication failed", nil)
		}
		return
	}

	h.logger.InfoTag("AUTH", "user logged in: %s", session.User.Email)
	userID := session.User.ID
	audit.Publish(h.bus, audit.Event{
		UserID:     &userID,
		Action:     audit.ActionLogin,
		EntityType: "user",
		EntityID:   &userID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"user":         toUserResponse(session.User),
		"access_token": session.AccessToken,
		"role":         session.Role,
	}, "Login successful")
}

func (h *AuthHandlers) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "Validation failed",
			gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	exists, err := h.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		h.logger.ErrorTag("AUTH", "registration lookup failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}
	if exists {
		httptransport.RespondError(c, http.StatusConflict,
			"User with this email or username already exists", nil)
		return
	}

	role, err := h.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		h.logger.ErrorTag("AUTH", "registration role lookup failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}
	if role == nil {
		httptransport.RespondError(c, http.StatusBadRequest, "Unknown role", nil)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorTag("AUTH", "password hashing failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := h.users.Create(ctx, user); err != nil {
		h.logger.ErrorTag("AUTH", "user creation failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to register user", nil)
		return
	}

	h.logger.InfoTag("AUTH", "user registered: %s", user.Email)
	userID := user.ID
	audit.Publish(h.bus, audit.Event{
		UserID:     &userID,
		Action:     audit.ActionRegister,
		EntityType: "user",
		EntityID:   &userID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	httptransport.RespondSuccess(c, http.StatusCreated,
		gin.H{"user": toUserResponse(user)}, "User registered successfully")
}

func (h *AuthHandlers) handleLogout(c *gin.Context) {
	claims, ok := httptransport.ClaimsFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "Invalid token", nil)
		return
	}

	if h.revoked != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := h.revoked.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.logger.ErrorTag("AUTH", "token revocation failed: %v", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
	}

	if userID, err := claims.UserID(); err == nil {
		audit.Publish(h.bus, audit.Event{
			UserID:     &userID,
			Action:     audit.ActionLogout,
			EntityType: "user",
			EntityID:   &userID,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
	}

	httptransport.RespondSuccess(c, http.StatusOK, nil, "Logged out")
}

func (h *AuthHandlers) handleProfile(c *gin.Context) {
	claims, ok := httptransport.ClaimsFrom(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "Invalid token", nil)
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		httptransport.RespondError(c, http.StatusUnauthorized, "Invalid token", nil)
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorTag("AUTH", "profile lookup failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if user == nil {
		httptransport.RespondError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"user":       toUserResponse(user),
		"last_login": user.LastLogin,
		"expires_at": claims.ExpiresAt,
	}, "")
}
