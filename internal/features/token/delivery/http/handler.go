package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/response"
	"sbt-gateway-backend/internal/features/token/models"
	"sbt-gateway-backend/internal/features/token/service"
)

type TokenHandler struct {
	service service.TokenService
}

func NewTokenHandler(service service.TokenService) *TokenHandler {
	return &TokenHandler{service: service}
}

func (h *TokenHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/issueToken", h.issueToken)
	router.GET("/checkToken", h.checkToken)
	router.POST("/delegateToken", h.delegateToken)
	router.POST("/mintRewardToken", h.mintRewardToken)
	router.GET("/users/:userId/tokens", h.getUserTokens)
}

// @Summary Issue a soul-bound token
// @Description Registers a soul-bound token with the relay for a registered user and records it locally.
// @Tags tokens
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope "Token issued"
// @Failure 400 {object} response.ErrorEnvelope "Invalid input or wallet mismatch"
// @Failure 404 {object} response.ErrorEnvelope "User not found"
// @Failure 502 {object} response.ErrorEnvelope "Relay rejected the request"
// @Failure 503 {object} response.ErrorEnvelope "Relay unavailable"
// @Router /issueToken [post]
func (h *TokenHandler) issueToken(c *gin.Context) {
	var req models.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.service.IssueToken(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, result, "Token issued successfully")
}

// @Summary Check token balance
// @Description Queries the relay for the on-chain token balance of a wallet address.
// @Tags tokens
// @Produce json
// @Param walletAddress query string true "Wallet address"
// @Param blockchain query string true "Blockchain identifier"
// @Param isDelegated query bool false "Check the delegated token contract"
// @Success 200 {object} response.Envelope "Balance and verification flag"
// @Failure 400 {object} response.ErrorEnvelope "Invalid query"
// @Router /checkToken [get]
func (h *TokenHandler) checkToken(c *gin.Context) {
	var req models.CheckTokenRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid query parameters"))
		return
	}

	result, err := h.service.CheckToken(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "Token balance retrieved")
}

// @Summary Delegate a soul-bound token
// @Description Registers a delegated soul-bound token bound to the delegate's wallet address.
// @Tags tokens
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope "Delegate token issued"
// @Failure 400 {object} response.ErrorEnvelope "Invalid input or wallet mismatch"
// @Failure 404 {object} response.ErrorEnvelope "User not found"
// @Router /delegateToken [post]
func (h *TokenHandler) delegateToken(c *gin.Context) {
	var req models.DelegateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.service.DelegateToken(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, result, "Delegate token issued successfully")
}

// @Summary Mint reward tokens
// @Description Mints VCT or WCT reward tokens for a batch of recipients in one relay call.
// @Tags tokens
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope "Reward tokens minted"
// @Failure 400 {object} response.ErrorEnvelope "Invalid input"
// @Failure 404 {object} response.ErrorEnvelope "User not found"
// @Router /mintRewardToken [post]
func (h *TokenHandler) mintRewardToken(c *gin.Context) {
	var req models.MintRewardTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.service.MintRewardToken(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, result, "Reward tokens minted successfully")
}

// @Summary List a user's tokens
// @Tags tokens
// @Produce json
// @Success 200 {object} response.Envelope "Token records"
// @Failure 404 {object} response.ErrorEnvelope "User not found"
// @Router /users/{userId}/tokens [get]
func (h *TokenHandler) getUserTokens(c *gin.Context) {
	result, err := h.service.GetUserTokens(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "Tokens retrieved successfully")
}
