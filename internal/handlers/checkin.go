package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/services"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type CheckInHandler struct {
	log *logger.Logger
	svc services.CheckInService
}

func NewCheckInHandler(log *logger.Logger, svc services.CheckInService) *CheckInHandler {
	return &CheckInHandler{log: log.With("handler", "CheckInHandler"), svc: svc}
}

type createCheckInRequest struct {
	UserID       uint     `json:"user_id" binding:"required"`
	HabitID      uint     `json:"habit_id" binding:"required"`
	CheckInDate  string   `json:"check_in_date" binding:"required"`
	MetricKey    *string  `json:"metric_key"`
	ValueNumeric *float64 `json:"value_numeric"`
	ValueText    *string  `json:"value_text"`
	Notes        string   `json:"notes"`
}

func (h *CheckInHandler) Create(c *gin.Context) {
	var req createCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	date, err := time.Parse("2006-01-02", req.CheckInDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid check_in_date"))
		return
	}

	checkIn := &types.CheckIn{
		UserID:       req.UserID,
		HabitID:      req.HabitID,
		CheckInDate:  date,
		MetricKey:    req.MetricKey,
		ValueNumeric: req.ValueNumeric,
		ValueText:    req.ValueText,
		Notes:        req.Notes,
	}
	created, err := h.svc.Create(c.Request.Context(), checkIn)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (h *CheckInHandler) Get(c *gin.Context) {
	checkInID, err := uintParam(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	checkIn, err := h.svc.Get(c.Request.Context(), checkInID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, checkIn)
}

func (h *CheckInHandler) List(c *gin.Context) {
	filter, err := parseCheckInFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	checkIns, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, checkIns)
}

func parseCheckInFilter(c *gin.Context) (repos.CheckInFilter, error) {
	filter := repos.CheckInFilter{}

	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("invalid user_id")
		}
		value := uint(id)
		filter.UserID = &value
	}
	if raw := c.Query("habit_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("invalid habit_id")
		}
		value := uint(id)
		filter.HabitID = &value
	}
	if raw := c.Query("start_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date")
		}
		filter.StartDate = &date
	}
	if raw := c.Query("end_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date")
		}
		filter.EndDate = &date
	}
	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid skip")
		}
		filter.Offset = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit")
		}
		filter.Limit = n
	}
	return filter, nil
}
