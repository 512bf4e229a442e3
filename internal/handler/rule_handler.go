package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trimatch/internal/automation"
	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// RuleHandler handles automation rule management endpoints.
type RuleHandler struct {
	ruleRepo port.AutomationRuleRepository
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleRepo port.AutomationRuleRepository) *RuleHandler {
	return &RuleHandler{ruleRepo: ruleRepo}
}

// Create handles POST /api/v1/rules
func (h *RuleHandler) Create(c *gin.Context) {
	var req struct {
		Name       string          `json:"name" binding:"required"`
		Trigger    string          `json:"trigger" binding:"required"`
		LogicalOp  string          `json:"logical_operator"`
		Conditions json.RawMessage `json:"conditions" binding:"required"`
		Action     string          `json:"action" binding:"required"`
		Priority   int             `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name, trigger, conditions, and action are required")
		return
	}

	trigger := domain.RuleTrigger(req.Trigger)
	if trigger != domain.TriggerOnMatched && trigger != domain.TriggerOnNeedsReview {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "trigger must be on_matched or on_needs_review")
		return
	}
	action := domain.RuleAction(req.Action)
	switch action {
	case domain.ActionAutoApprove, domain.ActionHold, domain.ActionFlagUrgent:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "action must be auto_approve, hold, or flag_urgent")
		return
	}
	logicalOp := strings.ToUpper(req.LogicalOp)
	if logicalOp == "" {
		logicalOp = "AND"
	}
	if logicalOp != "AND" && logicalOp != "OR" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "logical_operator must be AND or OR")
		return
	}

	rule := &domain.AutomationRule{
		ID:         uuid.New(),
		Name:       req.Name,
		Trigger:    trigger,
		LogicalOp:  logicalOp,
		Conditions: req.Conditions,
		Action:     action,
		Priority:   req.Priority,
		IsActive:   true,
	}
	// Reject policies the evaluator could never run.
	if _, err := automation.DecodePolicy(rule); err != nil {
		HandleError(c, err)
		return
	}

	if err := h.ruleRepo.Create(c.Request.Context(), rule); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rule)
}

// List handles GET /api/v1/rules
func (h *RuleHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	rules, total, err := h.ruleRepo.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, rules, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/rules/:id
func (h *RuleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid rule ID")
		return
	}
	if err := h.ruleRepo.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
