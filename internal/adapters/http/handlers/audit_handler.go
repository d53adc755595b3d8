package handlers

import (
	"strings"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func auditFilter(c *fiber.Ctx) (repositories.AuditFilter, error) {
	from, err := queryDate(c, "from")
	if err != nil {
		return repositories.AuditFilter{}, err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return repositories.AuditFilter{}, err
	}
	filter := repositories.AuditFilter{
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		EntityID:   strings.TrimSpace(c.Query("entity_id")),
		Action:     strings.TrimSpace(c.Query("action")),
		From:       from,
		To:         to,
	}
	if userID := queryInt(c, "user_id"); userID > 0 {
		filter.UserID = uint(userID)
	}
	return filter, nil
}

// ListAudit lists audit rows
// @Summary List audit log
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "User ID"
// @Param entity_type query string false "Entity type (table name)"
// @Param entity_id query string false "Entity ID"
// @Param action query string false "CREATE, UPDATE or STATUS_CHANGE"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /audit/logs [get]
func (h *AuditHandler) ListAudit(c *fiber.Ctx) error {
	filter, err := auditFilter(c)
	if err != nil {
		return fail(c, err, "Invalid filter")
	}

	params := pagination.GetParams(c)
	rows, total, err := h.auditService.ListAudit(c.Context(), filter, params)
	if err != nil {
		return fail(c, err, "Failed to list audit log")
	}
	return response.Paginated(c, "Audit log retrieved successfully", rows, pagination.GetMeta(params, total))
}

// ListActivity lists login and logout events
// @Summary List activity log
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "User ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /audit/activity [get]
func (h *AuditHandler) ListActivity(c *fiber.Ctx) error {
	filter, err := auditFilter(c)
	if err != nil {
		return fail(c, err, "Invalid filter")
	}

	params := pagination.GetParams(c)
	rows, total, err := h.auditService.ListActivity(c.Context(), filter, params)
	if err != nil {
		return fail(c, err, "Failed to list activity log")
	}
	return response.Paginated(c, "Activity log retrieved successfully", rows, pagination.GetMeta(params, total))
}
