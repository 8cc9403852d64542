package handler

import (
	"net/http"

	"consumables/internal/middleware"
	"consumables/internal/service"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	cookieTTL   int
}

// NewAuthHandler; cookieTTLSeconds should match the token lifetime
func NewAuthHandler(authService service.AuthService, cookieTTLSeconds int) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTLSeconds}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/auth")
	{
		group.POST("/unlock", h.Unlock)
		group.POST("/lock", h.Lock)
	}
}

// Unlock switches the session into admin mode
// @Summary      Unlock admin mode
// @Description  Checks the shared admin password and returns an admin token (also set as the admin_token cookie)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UnlockRequest  true  "Admin password"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/unlock [post]
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req service.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.authService.Unlock(c.Request.Context(), req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetAdminCookie(c, res.Token, h.cookieTTL)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Lock leaves admin mode
// @Summary      Lock admin mode
// @Description  Clears the admin_token cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/lock [post]
func (h *AuthHandler) Lock(c *gin.Context) {
	middleware.ClearAdminCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "admin mode locked"}))
}
