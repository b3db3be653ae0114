package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
)

type AdminHandler struct {
	svc  services.AdminService
	auth helper.Auth
}

func NewAdminHandler(svc services.AdminService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth}
}

func (h *AdminHandler) SetupRoutes(api fiber.Router, g Guards) {
	// moderators
	api.Get("/admin/alumni", g.Authenticated, g.Staff, h.ListAlumni)
	api.Get("/admin/stats", g.Authenticated, g.Staff, h.Stats)

	// super moderators
	api.Put("/superadmin/alumni/:id/role", g.Authenticated, g.Super, h.SetRole)
	api.Delete("/superadmin/alumni/:id", g.Authenticated, g.Super, h.DeleteAlumni)
}

// GET /api/admin/alumni?limit=&offset=&department=&verified=
func (h *AdminHandler) ListAlumni(ctx *fiber.Ctx) error {
	q := dto.AlumniListQuery{
		Limit:      ctx.QueryInt("limit"),
		Offset:     ctx.QueryInt("offset"),
		Department: ctx.Query("department"),
	}
	if raw := ctx.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.ValidationError("verified must be true or false")
		}
		q.Verified = &v
	}

	resp, err := h.svc.ListAlumni(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AdminHandler) Stats(ctx *fiber.Ctx) error {
	resp, err := h.svc.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AdminHandler) SetRole(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.SetRoleRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	alumni, err := h.svc.SetRole(ctx.UserContext(), user.AlumniID, id, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.NewAlumniProfileResponse(alumni))
}

func (h *AdminHandler) DeleteAlumni(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteAlumni(ctx.UserContext(), user.AlumniID, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
