package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
)

const (
	auditEntityMaintenance    = "maintenance"
	DefaultMaintenanceMessage = "The portal is under maintenance. Please try again later."
)

type MaintenanceService interface {
	Status(ctx context.Context) (*dto.MaintenanceStatusResponse, error)
	Set(ctx context.Context, actorID uint, input dto.MaintenanceRequest) (*domain.MaintenanceMode, error)
}

type maintenanceService struct {
	repo      repository.MaintenanceRepository
	auditRepo repository.AuditRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewMaintenanceService(repo repository.MaintenanceRepository, auditRepo repository.AuditRepository, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{
		repo:      repo,
		auditRepo: auditRepo,
		logger:    logger.Named("maintenance"),
		now:       time.Now,
	}
}

func (s *maintenanceService) Status(ctx context.Context) (*dto.MaintenanceStatusResponse, error) {
	m, err := s.repo.Get(ctx)
	if err != nil {
		return nil, helper.InternalError("failed to read maintenance flag", err)
	}
	return &dto.MaintenanceStatusResponse{IsEnabled: m.IsEnabled, Message: MaintenanceMessage(m)}, nil
}

func (s *maintenanceService) Set(ctx context.Context, actorID uint, input dto.MaintenanceRequest) (*domain.MaintenanceMode, error) {
	input.Message = strings.TrimSpace(input.Message)
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}

	m, err := s.repo.Set(ctx, *input.IsEnabled, input.Message, actorID, s.now())
	if err != nil {
		return nil, helper.InternalError("failed to update maintenance flag", err)
	}

	action := domain.AuditActionMaintenanceOff
	if m.IsEnabled {
		action = domain.AuditActionMaintenanceEnabled
	}
	entry := &domain.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   auditEntityMaintenance,
		EntityID: m.ID,
	}
	if input.Message != "" {
		entry.Note = &input.Message
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}

	s.logger.Info("maintenance flag changed", zap.Bool("enabled", m.IsEnabled), zap.Uint("actor_id", actorID))
	return m, nil
}

// MaintenanceMessage falls back to a default when no message was configured.
func MaintenanceMessage(m *domain.MaintenanceMode) string {
	if strings.TrimSpace(m.Message) == "" {
		return DefaultMaintenanceMessage
	}
	return m.Message
}
