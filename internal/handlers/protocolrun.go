package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/services"
)

type ProtocolRunHandler struct {
	log *logger.Logger
	svc services.ProtocolService
}

func NewProtocolRunHandler(log *logger.Logger, svc services.ProtocolService) *ProtocolRunHandler {
	return &ProtocolRunHandler{log: log.With("handler", "ProtocolRunHandler"), svc: svc}
}

type createProtocolRunRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	TemplateCode string `json:"template_code" binding:"required"`
}

type submitArtifactRequest struct {
	Payload json.RawMessage `json:"payload_json" binding:"required"`
	Source  string          `json:"source"`
}

func uintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(value), nil
}

func uintQuery(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(value), nil
}

func (h *ProtocolRunHandler) Create(c *gin.Context) {
	var req createProtocolRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	run, err := h.svc.CreateRun(c.Request.Context(), req.UserID, req.TemplateCode)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, run)
}

func (h *ProtocolRunHandler) Get(c *gin.Context) {
	runID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	run, err := h.svc.GetRun(c.Request.Context(), runID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, run)
}

func (h *ProtocolRunHandler) SubmitArtifact(c *gin.Context) {
	runID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	artifactKey := c.Param("artifact_key")

	var req submitArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	instance, err := h.svc.SubmitArtifact(c.Request.Context(), runID, artifactKey, req.Payload, req.Source)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, instance)
}

func (h *ProtocolRunHandler) GenerateInterventions(c *gin.Context) {
	runID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	result, err := h.svc.GenerateInterventions(c.Request.Context(), runID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *ProtocolRunHandler) AdvancePhase(c *gin.Context) {
	runID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	result, err := h.svc.AdvancePhase(c.Request.Context(), runID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *ProtocolRunHandler) Timeline(c *gin.Context) {
	runID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	timeline, err := h.svc.Timeline(c.Request.Context(), runID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, timeline)
}
