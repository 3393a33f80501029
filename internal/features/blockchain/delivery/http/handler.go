package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sbt-gateway-backend/internal/common/response"
	"sbt-gateway-backend/internal/features/blockchain/service"
)

type BlockchainHandler struct {
	service service.BlockchainService
}

func NewBlockchainHandler(service service.BlockchainService) *BlockchainHandler {
	return &BlockchainHandler{service: service}
}

func (h *BlockchainHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/blockchains", h.getBlockchains)
}

// @Summary List supported blockchains
// @Description Returns the chains the relay supports. Responses are cached.
// @Tags blockchains
// @Produce json
// @Success 200 {object} response.Envelope "Supported chains"
// @Failure 502 {object} response.ErrorEnvelope "Relay rejected the request"
// @Failure 503 {object} response.ErrorEnvelope "Relay unavailable"
// @Router /blockchains [get]
func (h *BlockchainHandler) getBlockchains(c *gin.Context) {
	result, err := h.service.GetBlockchains(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "Blockchains retrieved successfully")
}
