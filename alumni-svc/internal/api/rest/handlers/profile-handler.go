package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
	pkgutils "github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/pkg/utils"
)

type ProfileHandler struct {
	svc  services.ProfileService
	auth helper.Auth
}

func NewProfileHandler(svc services.ProfileService, auth helper.Auth) *ProfileHandler {
	return &ProfileHandler{svc: svc, auth: auth}
}

func (h *ProfileHandler) SetupRoutes(api fiber.Router, g Guards) {
	api.Get("/profile/me", g.Authenticated, g.Member, h.Me)
	api.Put("/profile/me", g.Authenticated, g.Member, h.Update)
	api.Post("/profile/me/photo", g.Authenticated, g.Member, h.UploadPhoto)

	api.Get("/profile/me/education", g.Authenticated, g.Member, h.ListEducation)
	api.Post("/profile/me/education", g.Authenticated, g.Member, h.AddEducation)
	api.Delete("/profile/me/education/:id", g.Authenticated, g.Member, h.DeleteEducation)
}

func (h *ProfileHandler) Me(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}

	alumni, err := h.svc.GetProfile(ctx.UserContext(), user.AlumniID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.NewAlumniProfileResponse(alumni))
}

func (h *ProfileHandler) Update(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateAlumniProfile
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	alumni, err := h.svc.UpdateProfile(ctx.UserContext(), user.AlumniID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.NewAlumniProfileResponse(alumni))
}

// POST /api/profile/me/photo
// form-data: file=<image>
func (h *ProfileHandler) UploadPhoto(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return helper.ValidationError("file is required")
	}
	tooLarge := helper.ValidationError(fmt.Sprintf("file too large (max %dMB)", services.MaxPhotoSize>>20))
	if file.Size > services.MaxPhotoSize {
		return tooLarge
	}

	f, err := file.Open()
	if err != nil {
		return helper.InternalError("cannot open uploaded file", err)
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, services.MaxPhotoSize)
	if err != nil {
		if errors.Is(err, pkgutils.ErrFileTooLarge) {
			return tooLarge
		}
		return helper.InternalError("cannot read uploaded file", err)
	}

	url, err := h.svc.UploadPhoto(ctx.UserContext(), user.AlumniID, file.Filename, data)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.PhotoUploadResponse{PhotoURL: url})
}

func (h *ProfileHandler) ListEducation(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}

	items, err := h.svc.ListEducation(ctx.UserContext(), user.AlumniID)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, items)
}

func (h *ProfileHandler) AddEducation(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	var req dto.EducationRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	edu, err := h.svc.AddEducation(ctx.UserContext(), user.AlumniID, req)
	if err != nil {
		return err
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, edu)
}

func (h *ProfileHandler) DeleteEducation(ctx *fiber.Ctx) error {
	user, err := currentUser(h.auth, ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteEducation(ctx.UserContext(), user.AlumniID, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
