package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
)

type MaintenanceHandler struct {
	svc  services.MaintenanceService
	auth helper.Auth
}

func NewMaintenanceHandler(svc services.MaintenanceService, auth helper.Auth) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, auth: auth}
}

func (h *MaintenanceHandler) SetupRoutes(api fiber.Router, g Guards) {
	api.Get("/maintenance/status", h.Status)
	api.Post("/superadmin/maintenance", g.Authenticated, g.Super, h.Set)
}

// GET /api/maintenance/status
func (h *MaintenanceHandler) Status(ctx *fiber.Ctx) error {
	resp, err := h.svc.Status(ctx.UserContext())
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

// POST /api/superadmin/maintenance
func (h *MaintenanceHandler) Set(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	var req dto.MaintenanceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	m, err := h.svc.Set(ctx.UserContext(), user.AlumniID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, m)
}
