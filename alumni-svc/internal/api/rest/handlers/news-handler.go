package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
)

type NewsHandler struct {
	svc  services.NewsService
	auth helper.Auth
}

func NewNewsHandler(svc services.NewsService, auth helper.Auth) *NewsHandler {
	return &NewsHandler{svc: svc, auth: auth}
}

func (h *NewsHandler) SetupRoutes(api fiber.Router, g Guards) {
	api.Get("/news", g.Authenticated, g.Member, h.List)
	api.Post("/news", g.Authenticated, g.Staff, h.Create)
	api.Delete("/news/:id", g.Authenticated, g.Staff, h.Delete)
}

// GET /api/news?limit=&offset=
func (h *NewsHandler) List(ctx *fiber.Ctx) error {
	page, err := h.svc.List(ctx.UserContext(), pageQuery(ctx))
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *NewsHandler) Create(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	var req dto.CreateNewsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	article, err := h.svc.Create(ctx.UserContext(), user.AlumniID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, article)
}

func (h *NewsHandler) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
