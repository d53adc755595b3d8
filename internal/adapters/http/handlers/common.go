package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// fail maps a service error to its HTTP status. Uncategorized errors are
// logged and answered with a 500 carrying only the fallback message.
func fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrRuleViolation):
		return response.UnprocessableEntity(c, err.Error())
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, fallback)
	}
}

// actorFrom builds the acting user from the locals set by the auth middleware
func actorFrom(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	return services.Actor{UserID: userID, Username: username, IP: c.IP()}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	return services.ParseDate(strings.TrimSpace(c.Query(key)))
}

// queryBool reads "true"/"1" style flags; anything unparsable is false
func queryBool(c *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func queryInt(c *fiber.Ctx, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}

func timeOr(t *time.Time) time.Time {
	if t == nil {
		return time.Now()
	}
	return *t
}
