package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-backend/internal/common/apperr"
	accountmodels "airdrop-backend/internal/features/account/models"
	airdropservice "airdrop-backend/internal/features/airdrop/service"
	"airdrop-backend/internal/session"
)

type AirdropHandler struct {
	service *airdropservice.AirdropService
}

func NewAirdropHandler(service *airdropservice.AirdropService) *AirdropHandler {
	return &AirdropHandler{service: service}
}

func (h *AirdropHandler) RegisterRoutes(router *gin.Engine) {
	airdrop := router.Group("/airdrop")
	{
		airdrop.POST("/claim", h.claim)
		airdrop.GET("/list", h.list)
	}
}

type claimRequest struct {
	NFTID   string `json:"nft_id"`
	Address string `json:"address"`
}

func (h *AirdropHandler) claim(c *gin.Context) {
	var input claimRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid request body"))
		return
	}

	userIDs := accountmodels.BoundUserIDs(session.FromContext(c))
	if err := h.service.Claim(c.Request.Context(), userIDs, input.NFTID, input.Address); err != nil {
		apperr.Respond(c, mapClaimError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AirdropHandler) list(c *gin.Context) {
	userIDs := accountmodels.BoundUserIDs(session.FromContext(c))
	result, err := h.service.List(c.Request.Context(), userIDs)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func mapClaimError(err error) error {
	switch {
	case errors.Is(err, airdropservice.ErrInvalidNFTID),
		errors.Is(err, airdropservice.ErrInvalidAddress):
		return apperr.BadRequest(err.Error())
	case errors.Is(err, airdropservice.ErrNoSignedInUser):
		return apperr.Unauthorized(err.Error())
	case errors.Is(err, airdropservice.ErrNotEligible):
		return apperr.NotEligible(err.Error())
	}
	return err
}
