package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/frontdesk-api/internal/handler"
	"github.com/clinicdesk/frontdesk-api/internal/middleware"
	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/service/auth"
)

const cookieName = "token"

type Handler struct {
	service      *auth.Service
	secureCookie bool
}

func NewHandler(service *auth.Service, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	staffToken, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName, staffToken.Token, int(h.service.TokenExpiry().Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.LoginResponse{Staff: *staffToken}))
}

func (h *Handler) Logout(c *gin.Context) {
	if token := middleware.ExtractToken(c); token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			handler.RespondError(c, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName, "", -1, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "logged out"}))
}
