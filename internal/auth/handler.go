package auth

import (
	"net/http"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/middleware"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests related to authentication.
type AuthHandler struct {
	service *AuthService
	logger  *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler with the given service and logger.
func NewAuthHandler(service *AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func RegisterAuthRoutes(handler *AuthHandler, routerGroup *gin.RouterGroup) {
	authGroup := routerGroup.Group("/auth")
	{
		authGroup.POST("/signup", handler.Signup)
		authGroup.POST("/signin", handler.Signin)
		authGroup.POST("/signout", handler.Signout)
		authGroup.GET("/getuser", handler.GetUser)
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Invalid signup request")
		utils.RespondAPIError(c, appErrors.ErrInvalidBody)
		return
	}
	if err := h.service.Signup(c.Request.Context(), req.Email); err != nil {
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, MessageResponse{Message: "Magic link sent to your email."})
}

// Signin handles POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Invalid signin request")
		utils.RespondAPIError(c, appErrors.ErrInvalidBody)
		return
	}
	if err := h.service.Signin(c.Request.Context(), req.Email); err != nil {
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, MessageResponse{Message: "Magic link sent to your email."})
}

// Signout handles POST /api/auth/signout
func (h *AuthHandler) Signout(c *gin.Context) {
	if err := h.service.Signout(c.Request.Context(), middleware.Credential(c)); err != nil {
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, MessageResponse{Message: "Signed out successfully"})
}

// GetUser handles GET /api/auth/getuser
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.Credential(c))
	if err != nil {
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, UserResponse{User: user})
}
