package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type AuthController struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, resetService service.PasswordResetService) *AuthController {
	return &AuthController{authService: authService, resetService: resetService}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, tokens, err := ctrl.authService.Register(req)
	if err != nil {
		respondError(c, err, "create user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})

	response.Created(c, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Login failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, err, "login")
		return
	}

	response.OK(c, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh rotates the token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "refresh token")
		return
	}

	response.OK(c, gin.H{"tokens": tokens})
}

// ForgotPassword emails a reset link. The response is the same whether or not the account exists.
// POST /api/v1/auth/forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	if err := ctrl.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "password reset")
		return
	}

	response.Message(c, "If the email is registered, a reset link has been sent")
}

// ResetPassword sets a new password from an emailed token
// POST /api/v1/auth/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	if err := ctrl.resetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondError(c, err, "password reset")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Password reset completed")
	response.Message(c, "Password has been reset")
}

// Logout revokes the access token used for this request
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "logout")
		return
	}

	response.Message(c, "Signed out")
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err, "user")
		return
	}

	response.OK(c, gin.H{"user": user})
}

// UpdateMe updates the current user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err, "update user")
		return
	}

	response.OK(c, gin.H{"user": user})
}

// ListUsers lists accounts for the back office
// GET /api/v1/admin/users
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	p := pagination(c)
	users, total, err := ctrl.authService.ListUsers(repository.UserFilter{
		Search: c.Query("search"),
		Role:   model.UserRole(c.Query("role")),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		respondError(c, err, "list users")
		return
	}

	response.Paginated(c, users, p, total)
}

// UpdateUserRole promotes or demotes a user
// PUT /api/v1/admin/users/:id/role
func (ctrl *AuthController) UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := ctrl.authService.UpdateRole(actorID, id, req.Role)
	if err != nil {
		respondError(c, err, "update user")
		return
	}

	middleware.GetLoggerFromContext(c).Info("User role changed", map[string]interface{}{
		"user_id": id,
		"role":    req.Role,
	})

	response.OK(c, gin.H{"user": user})
}

// DeleteUser removes an account
// DELETE /api/v1/admin/users/:id
func (ctrl *AuthController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.authService.DeleteUser(actorID, id); err != nil {
		respondError(c, err, "delete user")
		return
	}

	response.Message(c, "User deleted")
}
