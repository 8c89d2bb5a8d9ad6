package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/services"
)

type RewardsHandler struct {
	log *logger.Logger
	svc services.RewardsService
}

func NewRewardsHandler(log *logger.Logger, svc services.RewardsService) *RewardsHandler {
	return &RewardsHandler{log: log.With("handler", "RewardsHandler"), svc: svc}
}

func (h *RewardsHandler) Balance(c *gin.Context) {
	userID, err := uintQuery(c, "user_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	var programID *uint
	if raw := c.Query("program_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid program_id"))
			return
		}
		value := uint(id)
		programID = &value
	}

	balance, err := h.svc.Balance(c.Request.Context(), userID, programID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, balance)
}

func (h *RewardsHandler) UserBadges(c *gin.Context) {
	userID, err := uintParam(c, "user_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	badges, err := h.svc.UserBadges(c.Request.Context(), userID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, badges)
}

func (h *RewardsHandler) UserStreaks(c *gin.Context) {
	userID, err := uintParam(c, "user_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	streaks, err := h.svc.UserStreaks(c.Request.Context(), userID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, streaks)
}
