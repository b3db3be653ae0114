package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
)

const auditEntityAlumni = "alumni"

type AdminService interface {
	ListAlumni(ctx context.Context, q dto.AlumniListQuery) (*dto.AlumniListResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	SetRole(ctx context.Context, actorID, alumniID uint, input dto.SetRoleRequest) (*domain.Alumni, error)
	DeleteAlumni(ctx context.Context, actorID, alumniID uint) error
}

type adminService struct {
	repo      repository.AlumniRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	logger    *zap.Logger
}

func NewAdminService(
	repo repository.AlumniRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		repo:      repo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		logger:    logger.Named("admin"),
	}
}

func (s *adminService) ListAlumni(ctx context.Context, q dto.AlumniListQuery) (*dto.AlumniListResponse, error) {
	items, total, err := s.repo.ListAlumni(ctx, repository.AlumniFilter{
		Department: q.Department,
		Verified:   q.Verified,
	}, q.Limit, q.Offset)
	if err != nil {
		return nil, helper.InternalError("failed to list alumni", err)
	}

	out := make([]dto.AlumniProfileResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewAlumniProfileResponse(&items[i]))
	}
	return &dto.AlumniListResponse{Items: out, Total: total}, nil
}

func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	total, err := s.repo.CountAlumni(ctx, nil)
	if err != nil {
		return nil, helper.InternalError("failed to count alumni", err)
	}
	verifiedOnly := true
	verified, err := s.repo.CountAlumni(ctx, &verifiedOnly)
	if err != nil {
		return nil, helper.InternalError("failed to count alumni", err)
	}
	byDept, err := s.repo.CountByDepartment(ctx)
	if err != nil {
		return nil, helper.InternalError("failed to group alumni", err)
	}
	byYear, err := s.repo.CountByPassingYear(ctx)
	if err != nil {
		return nil, helper.InternalError("failed to group alumni", err)
	}
	byRole, err := s.roleRepo.CountByRole(ctx)
	if err != nil {
		return nil, helper.InternalError("failed to group alumni", err)
	}

	return &dto.StatsResponse{
		Total:         total,
		Verified:      verified,
		Unverified:    total - verified,
		ByDepartment:  byDept,
		ByPassingYear: byYear,
		ByRole:        byRole,
	}, nil
}

func (s *adminService) SetRole(ctx context.Context, actorID, alumniID uint, input dto.SetRoleRequest) (*domain.Alumni, error) {
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, helper.ValidationError("unknown role")
	}
	if actorID == alumniID {
		return nil, helper.ValidationError("you cannot change your own role")
	}

	alumni, err := s.repo.FindAlumniByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("alumni not found")
		}
		return nil, helper.InternalError("failed to look up alumni", err)
	}
	if !alumni.Verified {
		return nil, helper.ValidationError("only verified alumni can be given a role")
	}

	previous := alumni.Role
	if err := s.roleRepo.SetRole(ctx, alumniID, role); err != nil {
		return nil, helper.InternalError("failed to update role", err)
	}
	alumni.Role = role

	s.audit(ctx, actorID, domain.AuditActionRoleChanged, alumniID, fmt.Sprintf("%s -> %s", previous, role))
	return alumni, nil
}

func (s *adminService) DeleteAlumni(ctx context.Context, actorID, alumniID uint) error {
	if actorID == alumniID {
		return helper.ValidationError("you cannot delete your own account")
	}
	if err := s.repo.DeleteAlumni(ctx, alumniID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFoundError("alumni not found")
		}
		return helper.InternalError("failed to delete alumni", err)
	}

	s.audit(ctx, actorID, domain.AuditActionAlumniDeleted, alumniID, "")
	return nil
}

// audit failures never undo the action they describe.
func (s *adminService) audit(ctx context.Context, actorID uint, action string, entityID uint, note string) {
	entry := &domain.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   auditEntityAlumni,
		EntityID: entityID,
	}
	if note != "" {
		entry.Note = &note
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
