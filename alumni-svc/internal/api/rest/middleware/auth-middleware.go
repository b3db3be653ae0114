package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/services"
)

// RoleFinder reads the current role and verification status of an alumni.
type RoleFinder interface {
	GetRoleByAlumniID(ctx context.Context, alumniID uint) (repository.RoleStatus, error)
}

// MaintenanceReader reads the maintenance flag.
type MaintenanceReader interface {
	Get(ctx context.Context) (*domain.MaintenanceMode, error)
}

// maintenanceExempt are path prefixes the maintenance gate never blocks.
var maintenanceExempt = []string{
	"/api/auth/",
	"/api/maintenance/status",
}

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, err := helper.BearerToken(ctx.Get(fiber.HeaderAuthorization))
		if err != nil {
			if errors.Is(err, helper.ErrMissingToken) {
				return helper.UnauthenticatedError("authentication required")
			}
			return helper.UnauthenticatedError("invalid token")
		}

		user, err := auth.VerifyToken(token)
		if err != nil {
			if errors.Is(err, helper.ErrTokenExpired) {
				return helper.UnauthenticatedError("token expired")
			}
			return helper.UnauthenticatedError("invalid token")
		}

		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// RequireRoles must run after AuthMiddleware. The role in the token is ignored:
// the row is read again so role changes and deletions apply on the next request.
func RequireRoles(finder RoleFinder, roles ...domain.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := ctx.Locals("user").(dto.AuthResponse)
		if !ok || user.AlumniID == 0 {
			return helper.UnauthenticatedError("authentication required")
		}

		status, err := finder.GetRoleByAlumniID(ctx.UserContext(), user.AlumniID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return helper.UnauthorizedError("account no longer exists")
			}
			return helper.InternalError("failed to load role", err)
		}
		if !status.Verified {
			return helper.UnauthorizedError("account not verified")
		}
		if !status.Role.In(roles...) {
			return helper.UnauthorizedError("insufficient permissions")
		}

		ctx.Locals("role", status.Role)
		return ctx.Next()
	}
}

// MaintenanceGate reads the flag on every request. While it is on, only staff
// pass; identity comes from an optional bearer token, role from the store.
func MaintenanceGate(reader MaintenanceReader, finder RoleFinder, auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		path := ctx.Path()
		for _, prefix := range maintenanceExempt {
			if strings.HasPrefix(path, prefix) {
				return ctx.Next()
			}
		}

		m, err := reader.Get(ctx.UserContext())
		if err != nil {
			return helper.InternalError("failed to read maintenance flag", err)
		}
		if !m.IsEnabled {
			return ctx.Next()
		}

		if isStaff(ctx, finder, auth) {
			return ctx.Next()
		}
		return helper.UnavailableError(services.MaintenanceMessage(m))
	}
}

func isStaff(ctx *fiber.Ctx, finder RoleFinder, auth helper.Auth) bool {
	token, err := helper.BearerToken(ctx.Get(fiber.HeaderAuthorization))
	if err != nil {
		return false
	}
	user, err := auth.VerifyToken(token)
	if err != nil {
		return false
	}
	status, err := finder.GetRoleByAlumniID(ctx.UserContext(), user.AlumniID)
	if err != nil {
		return false
	}
	return status.Verified && status.Role.In(domain.StaffRoles...)
}
