package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/response"
	"sbt-gateway-backend/internal/features/user/models"
	"sbt-gateway-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/registerUser", h.registerUser)
	router.GET("/users/:userId", h.getUser)
}

// @Summary Register a user
// @Description Registers a user and derives their wallet address from the supplied public key via the relay.
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope "User registered"
// @Failure 400 {object} response.ErrorEnvelope "Invalid input"
// @Failure 409 {object} response.ErrorEnvelope "Duplicate userId or wallet address"
// @Failure 503 {object} response.ErrorEnvelope "Relay unavailable"
// @Router /registerUser [post]
func (h *UserHandler) registerUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, result, "User registered successfully")
}

// @Summary Get user by id
// @Tags users
// @Produce json
// @Success 200 {object} response.Envelope "User data"
// @Failure 404 {object} response.ErrorEnvelope "User not found"
// @Router /users/{userId} [get]
func (h *UserHandler) getUser(c *gin.Context) {
	result, err := h.service.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "User retrieved successfully")
}
