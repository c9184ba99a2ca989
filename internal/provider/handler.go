package provider

import (
	"net/http"
	"strings"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/middleware"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const providerKey = "provider"

// ProviderHandler handles HTTP requests for provider authorization and actions.
type ProviderHandler struct {
	service        *ProviderService
	beginResponses map[string]string
	appRedirectURL string
	logger         *logrus.Logger
}

// NewProviderHandler creates a new ProviderHandler.
// appRedirectURL is where the browser is sent after a successful callback; when empty
// the callback answers with the connection as JSON.
func NewProviderHandler(service *ProviderService, providers []config.ProviderConfig, appRedirectURL string, logger *logrus.Logger) *ProviderHandler {
	modes := make(map[string]string, len(providers))
	for _, p := range providers {
		modes[p.Name] = p.BeginResponse
	}
	return &ProviderHandler{
		service:        service,
		beginResponses: modes,
		appRedirectURL: appRedirectURL,
		logger:         logger,
	}
}

// RegisterProviderRoutes registers one route group per configured provider under api.
func RegisterProviderRoutes(handler *ProviderHandler, api *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	api.GET("/providers", handler.ListProviders)

	for _, name := range handler.service.adapters.Names() {
		providerGroup := api.Group("/"+name, withProvider(name))
		{
			// Flow endpoints resolve the credential themselves so the browser can pass it as a query parameter
			providerGroup.GET("/request-token", handler.RequestToken)
			providerGroup.GET("/callback", handler.Callback)

			providerGroup.POST("/comment", authMiddleware, handler.Comment)
			providerGroup.POST("/refresh", authMiddleware, handler.Refresh)
			providerGroup.GET("/connection", authMiddleware, handler.GetConnection)
			providerGroup.DELETE("/connection", authMiddleware, handler.DeleteConnection)
		}
	}
}

func withProvider(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(providerKey, name)
		c.Next()
	}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	utils.RespondSuccess(c, http.StatusOK, h.service.Providers())
}

// RequestToken handles GET /api/:provider/request-token
func (h *ProviderHandler) RequestToken(c *gin.Context) {
	provider := c.GetString(providerKey)
	logEntry := h.logEntry(c, "RequestToken")

	auth, err := h.service.Begin(c.Request.Context(), provider, middleware.Credential(c))
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to start authorization")
		utils.RespondAPIError(c, err)
		return
	}

	if h.wantsJSON(c, provider) {
		// Unenveloped: clients read authUrl at the top level.
		c.JSON(http.StatusOK, BeginResponse{AuthURL: auth.AuthURL, OAuthToken: auth.RequestToken})
		return
	}
	c.Redirect(http.StatusFound, auth.AuthURL)
}

// Callback handles GET /api/:provider/callback
func (h *ProviderHandler) Callback(c *gin.Context) {
	provider := c.GetString(providerKey)
	logEntry := h.logEntry(c, "Callback")

	cb := oauth.Callback{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		RequestToken:     c.Query("oauth_token"),
		Verifier:         c.Query("oauth_verifier"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
	}
	// OAuth 1.0a providers report a cancelled authorization as ?denied=<request token>
	if denied := c.Query("denied"); denied != "" {
		cb.RequestToken = denied
		cb.Error = "access_denied"
	}

	conn, err := h.service.Callback(c.Request.Context(), provider, cb)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to complete authorization")
		utils.RespondAPIError(c, err)
		return
	}

	if h.appRedirectURL == "" {
		utils.RespondSuccess(c, http.StatusOK, conn)
		return
	}
	c.Redirect(http.StatusFound, h.appRedirectURL)
}

// Comment handles POST /api/:provider/comment
func (h *ProviderHandler) Comment(c *gin.Context) {
	provider := c.GetString(providerKey)
	logEntry := h.logEntry(c, "Comment")

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to bind request body")
		utils.RespondAPIError(c, appErrors.ErrInvalidBody)
		return
	}

	resp, err := h.service.Comment(c.Request.Context(), c.GetString("user_id"), provider, req)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Failed to post comment")
		utils.RespondAPIError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", resp)
}

// Refresh handles POST /api/:provider/refresh
func (h *ProviderHandler) Refresh(c *gin.Context) {
	provider := c.GetString(providerKey)

	conn, err := h.service.Refresh(c.Request.Context(), c.GetString("user_id"), provider)
	if err != nil {
		h.logEntry(c, "Refresh").WithField("error", err.Error()).Error("Failed to refresh token")
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, conn)
}

// GetConnection handles GET /api/:provider/connection
func (h *ProviderHandler) GetConnection(c *gin.Context) {
	conn, err := h.service.Connection(c.Request.Context(), c.GetString("user_id"), c.GetString(providerKey))
	if err != nil {
		utils.RespondAPIError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, conn)
}

// DeleteConnection handles DELETE /api/:provider/connection
func (h *ProviderHandler) DeleteConnection(c *gin.Context) {
	provider := c.GetString(providerKey)

	if err := h.service.Disconnect(c.Request.Context(), c.GetString("user_id"), provider); err != nil {
		h.logEntry(c, "DeleteConnection").WithField("error", err.Error()).Error("Failed to disconnect provider")
		utils.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProviderHandler) wantsJSON(c *gin.Context, provider string) bool {
	if strings.EqualFold(c.Query("format"), "json") {
		return true
	}
	return h.beginResponses[provider] == config.BeginResponseJSON
}

func (h *ProviderHandler) logEntry(c *gin.Context, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"handler":  handler,
		"provider": c.GetString(providerKey),
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
	})
}
