package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SetupRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	auth.Post("/send-otp", h.SendOTP)
	auth.Post("/register", h.Register)
	auth.Post("/send-login-otp", h.SendLoginOTP)
	auth.Post("/verify-login-otp", h.VerifyLoginOTP)
}

// POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(ctx *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	id, err := h.svc.RequestRegistrationCode(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.SendOTPResponse{AlumniID: id})
}

// POST /api/auth/register
func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	resp, err := h.svc.Register(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

// POST /api/auth/send-login-otp
func (h *AuthHandler) SendLoginOTP(ctx *fiber.Ctx) error {
	var req dto.SendLoginOTPRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	id, err := h.svc.RequestLoginCode(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.SendOTPResponse{AlumniID: id})
}

// POST /api/auth/verify-login-otp
func (h *AuthHandler) VerifyLoginOTP(ctx *fiber.Ctx) error {
	var req dto.VerifyLoginOTPRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	resp, err := h.svc.VerifyLogin(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}
