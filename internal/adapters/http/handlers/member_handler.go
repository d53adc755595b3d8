package handlers

import (
	"strings"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func memberFilter(c *fiber.Ctx) repositories.MemberFilter {
	return repositories.MemberFilter{
		StationID:  strings.TrimSpace(c.Query("station_id")),
		ActiveOnly: queryBool(c, "active"),
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
}

// ListMembers lists members
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param station_id query string false "Station ID"
// @Param active query bool false "Only active members"
// @Param status query string false "active, inactive or deceased"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), memberFilter(c), params)
	if err != nil {
		return fail(c, err, "Failed to list members")
	}
	return response.Paginated(c, "Members retrieved successfully", members, pagination.GetMeta(params, total))
}

// SearchMembers matches ID, registration number or any part of the name
// @Summary Search members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text"
// @Param limit query int false "Maximum rows" default(20)
// @Success 200 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) SearchMembers(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return response.BadRequest(c, "Search text is required")
	}

	members, err := h.memberService.Search(c.Context(), q, queryInt(c, "limit"))
	if err != nil {
		return fail(c, err, "Failed to search members")
	}
	return response.Success(c, "Members retrieved successfully", members)
}

// ListSummaries returns member summary rows
// @Summary Member summaries
// @Description Rows of the member summary view (savings, loans and charges per member)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param station_id query string false "Station ID"
// @Param status query string false "active, inactive or deceased"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /members/summary [get]
func (h *MemberHandler) ListSummaries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	rows, total, err := h.memberService.Summaries(c.Context(), memberFilter(c), params)
	if err != nil {
		return fail(c, err, "Failed to list member summaries")
	}
	return response.Paginated(c, "Member summaries retrieved successfully", rows, pagination.GetMeta(params, total))
}

// GetMember returns one member
// @Summary Get member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	member, err := h.memberService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get member")
	}
	return response.Success(c, "Member retrieved successfully", member)
}

// GetSummary returns the summary row of one member
// @Summary Member summary
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/summary [get]
func (h *MemberHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.memberService.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get member summary")
	}
	return response.Success(c, "Member summary retrieved successfully", summary)
}

// RegisterMember registers a member with the next member number
// @Summary Register member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) RegisterMember(c *fiber.Ctx) error {
	var input services.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Register(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to register member")
	}
	return response.Created(c, "Member registered successfully", member)
}

// UpdateMember updates member profile fields
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.MemberInput true "Member data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	var input services.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), actorFrom(c), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to update member")
	}
	return response.Success(c, "Member updated successfully", member)
}

// ChangeStatus sets a member active, inactive or deceased
// @Summary Change member status
// @Description Deceased is permanent
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.StatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members/{id}/status [patch]
func (h *MemberHandler) ChangeStatus(c *fiber.Ctx) error {
	var input services.StatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.ChangeStatus(c.Context(), actorFrom(c), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to change member status")
	}
	return response.Success(c, "Member status changed successfully", member)
}
