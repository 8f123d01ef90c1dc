package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/common/apperr"
	accountservice "airdrop-backend/internal/features/account/service"
	"airdrop-backend/internal/session"
)

type AccountHandler struct {
	service *accountservice.AccountService
}

func NewAccountHandler(service *accountservice.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterRoutes(router *gin.Engine) {
	account := router.Group("/account")
	{
		account.GET("/:provider", h.get)
		account.GET("/:provider/authorize_url", h.authorizeURL)
		account.POST("/:provider/sign_in", h.signIn)
		account.POST("/:provider/sign_out", h.signOut)
	}
}

func (h *AccountHandler) get(c *gin.Context) {
	provider := c.Param("provider")
	if _, ok := h.service.Provider(provider); !ok {
		apperr.Respond(c, apperr.BadRequest("unknown provider"))
		return
	}

	identity := session.FromContext(c).Identity(provider)
	if identity == nil {
		identity = &session.Identity{}
	}
	c.JSON(http.StatusOK, identity)
}

func (h *AccountHandler) authorizeURL(c *gin.Context) {
	url, err := h.service.AuthorizeURL(c.Param("provider"), c.Query("host"), session.FromContext(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *AccountHandler) signIn(c *gin.Context) {
	var input accountservice.SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid request body"))
		return
	}

	if err := h.service.SignIn(c.Request.Context(), c.Param("provider"), input, session.FromContext(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AccountHandler) signOut(c *gin.Context) {
	if err := h.service.SignOut(c.Param("provider"), session.FromContext(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
