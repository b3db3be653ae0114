package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
)

// Guards are the access middlewares handlers attach to their routes.
// Authenticated checks the token, the others re-check the stored role.
type Guards struct {
	Authenticated fiber.Handler
	Member        fiber.Handler
	Staff         fiber.Handler
	Super         fiber.Handler
}

func currentUser(auth helper.Auth, ctx *fiber.Ctx) (dto.AuthResponse, error) {
	user, err := auth.GetCurrentUser(ctx)
	if err != nil {
		return dto.AuthResponse{}, helper.UnauthenticatedError("authentication required")
	}
	return user, nil
}

func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, helper.ValidationError("invalid " + name)
	}
	return uint(id), nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return helper.ValidationError("Please provide valid inputs")
	}
	return nil
}

func pageQuery(ctx *fiber.Ctx) dto.PageQuery {
	return dto.PageQuery{
		Limit:  ctx.QueryInt("limit"),
		Offset: ctx.QueryInt("offset"),
	}
}
