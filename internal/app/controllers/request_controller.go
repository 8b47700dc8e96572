package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rescare/rescare/internal/app/models/dto"
	"github.com/rescare/rescare/internal/app/services"
	"github.com/rescare/rescare/internal/middleware"
)

// RequestController handles maintenance request endpoints
type RequestController struct {
	requestService *services.RequestService
	logger         zerolog.Logger
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService, logger zerolog.Logger) *RequestController {
	return &RequestController{
		requestService: requestService,
		logger:         logger,
	}
}

// Create handles new request submissions
func (c *RequestController) Create(ctx *gin.Context) {
	var req dto.CreateRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create request payload")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "All fields are required.")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := c.requestService.Create(ctx.Request.Context(), req.StudentID, req.Subject, req.Description); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Request submitted successfully."))
}

// GetAll returns every request, newest first
func (c *RequestController) GetAll(ctx *gin.Context) {
	requests, err := c.requestService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewRequestListResponse(requests))
}

// GetByBlock returns the requests visible to a residence/block view
func (c *RequestController) GetByBlock(ctx *gin.Context) {
	residence := ctx.Param("residence")
	block := ctx.Param("block")

	requests, err := c.requestService.ListByBlock(ctx.Request.Context(), residence, block)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewRequestListResponse(requests))
}

// UpdateStatus sets a request's status
func (c *RequestController) UpdateStatus(ctx *gin.Context) {
	requestID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Request ID is required.")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid status update payload")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Status is required.")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := c.requestService.UpdateStatus(ctx.Request.Context(), requestID, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Request status updated successfully."))
}
