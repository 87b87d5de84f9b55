package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// passwordForm is the OAuth2 password-grant form accepted by /auth/token
type passwordForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Register
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Token issues an access token. It accepts a form with username/password or
// a JSON body with email/password.
// POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req services.LoginRequest

	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		var form passwordForm
		if err := c.ShouldBind(&form); err != nil {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid form payload", err.Error())
			return
		}
		req.Email = form.Username
		req.Password = form.Password
	default:
		if err := c.ShouldBindJSON(&req); err != nil {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}

	token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if services.IsUnauthorized(err) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Me returns the authenticated caller
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
