package http

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/common/apperr"
	airdropservice "airdrop-backend/internal/features/airdrop/service"
	"airdrop-backend/internal/platform/chain"
	"airdrop-backend/internal/session"
)

// bindingKeys are the configuration variables surfaced (presence and length
// only, never values) by /debug/bindings.
var bindingKeys = []string{
	"SECRET_KEY",
	"DEBUG_KEY",
	"DATABASE_URL",
	"REDIS_ADDR",
	"CATALOG_PATH",
	"MINTER_PRIVATE_KEY",
	"OWNER_GITHUB_USERNAME",
	"OWNER_TWITTER_USERNAME",
}

// bindingPrefixes extends the report to the dynamic per-site and per-chain
// variables.
var bindingPrefixes = []string{"SITE_", "RPC_ENDPOINT_"}

// DebugHandler exposes operational introspection, guarded by the debug key.
type DebugHandler struct {
	airdrops *airdropservice.AirdropService
	// minters is nil when the API runs without a minting key.
	minters map[string]chain.Minter
}

func NewDebugHandler(airdrops *airdropservice.AirdropService, minters map[string]chain.Minter) *DebugHandler {
	return &DebugHandler{airdrops: airdrops, minters: minters}
}

func (h *DebugHandler) RegisterRoutes(router *gin.Engine, debugKey string) {
	debug := router.Group("/debug")
	debug.Use(func(c *gin.Context) {
		if debugKey == "" || c.Query("key") != debugKey {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	})
	{
		debug.GET("/session", h.session)
		debug.GET("/bindings", h.bindings)
		debug.GET("/minter", h.minter)
		debug.GET("/mintings", h.mintings)
	}
}

func (h *DebugHandler) session(c *gin.Context) {
	c.JSON(http.StatusOK, session.FromContext(c))
}

type bindingInfo struct {
	Existed bool `json:"existed"`
	Length  int  `json:"length,omitempty"`
}

func (h *DebugHandler) bindings(c *gin.Context) {
	bindings := map[string]bindingInfo{}
	for _, key := range bindingKeys {
		value := os.Getenv(key)
		bindings[key] = bindingInfo{Existed: value != "", Length: len(value)}
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, prefix := range bindingPrefixes {
			if strings.HasPrefix(key, prefix) {
				bindings[key] = bindingInfo{Existed: value != "", Length: len(value)}
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"bindings": bindings})
}

func (h *DebugHandler) minter(c *gin.Context) {
	if len(h.minters) == 0 {
		apperr.Respond(c, apperr.Internal("no minter configured", nil))
		return
	}

	wallets := map[string]gin.H{}
	for chainName, minter := range h.minters {
		balance, err := minter.Balance(c.Request.Context())
		if err != nil {
			apperr.Respond(c, apperr.Upstream("failed to fetch minter balance", err))
			return
		}
		wallets[chainName] = gin.H{
			"address": minter.Address(),
			"balance": balance.String(),
		}
	}
	c.JSON(http.StatusOK, wallets)
}

func (h *DebugHandler) mintings(c *gin.Context) {
	records, err := h.airdrops.Unminted(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"airdrops": records})
}
