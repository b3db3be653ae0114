package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/interfaces"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/pkg/utils"
)

const (
	MaxPhotoSize  = 5 * 1024 * 1024
	photoMaxWidth = 800
	photoQuality  = 85
	photoFolder   = "kes-alumni/profile"
)

type ProfileService interface {
	GetProfile(ctx context.Context, alumniID uint) (*domain.Alumni, error)
	UpdateProfile(ctx context.Context, alumniID uint, input dto.UpdateAlumniProfile) (*domain.Alumni, error)
	UploadPhoto(ctx context.Context, alumniID uint, filename string, data []byte) (string, error)

	ListEducation(ctx context.Context, alumniID uint) ([]domain.Education, error)
	AddEducation(ctx context.Context, alumniID uint, input dto.EducationRequest) (*domain.Education, error)
	DeleteEducation(ctx context.Context, alumniID, educationID uint) error
}

type profileService struct {
	repo     repository.AlumniRepository
	eduRepo  repository.EducationRepository
	uploader interfaces.Uploader
	logger   *zap.Logger
}

// NewProfileService accepts a nil uploader; photo uploads then report 503.
func NewProfileService(
	repo repository.AlumniRepository,
	eduRepo repository.EducationRepository,
	uploader interfaces.Uploader,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		repo:     repo,
		eduRepo:  eduRepo,
		uploader: uploader,
		logger:   logger.Named("profile"),
	}
}

func (s *profileService) GetProfile(ctx context.Context, alumniID uint) (*domain.Alumni, error) {
	alumni, err := s.repo.FindAlumniByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("alumni not found")
		}
		return nil, helper.InternalError("failed to load profile", err)
	}
	return alumni, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, alumniID uint, input dto.UpdateAlumniProfile) (*domain.Alumni, error) {
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}

	alumni, err := s.GetProfile(ctx, alumniID)
	if err != nil {
		return nil, err
	}

	required := []struct {
		name string
		in   *string
		out  *string
	}{
		{"firstName", input.FirstName, &alumni.FirstName},
		{"department", input.Department, &alumni.Department},
		{"college", input.College, &alumni.College},
		{"course", input.Course, &alumni.Course},
	}
	for _, f := range required {
		if f.in == nil {
			continue
		}
		v := strings.TrimSpace(*f.in)
		if v == "" {
			return nil, helper.ValidationError(fmt.Sprintf("%s cannot be empty", f.name))
		}
		*f.out = v
	}

	optional := []struct {
		in  *string
		out *string
	}{
		{input.LastName, &alumni.LastName},
		{input.CurrentCompany, &alumni.CurrentCompany},
		{input.Designation, &alumni.Designation},
		{input.City, &alumni.City},
		{input.Country, &alumni.Country},
		{input.Bio, &alumni.Bio},
	}
	for _, f := range optional {
		if f.in != nil {
			*f.out = strings.TrimSpace(*f.in)
		}
	}

	if input.JoiningYear != nil {
		alumni.JoiningYear = int(*input.JoiningYear)
	}
	if input.PassingYear != nil {
		alumni.PassingYear = int(*input.PassingYear)
	}
	if alumni.JoiningYear > 0 && alumni.PassingYear > 0 && alumni.PassingYear < alumni.JoiningYear {
		return nil, helper.ValidationError("passingYear cannot be before joiningYear")
	}

	if err := s.repo.SaveAlumni(ctx, alumni); err != nil {
		return nil, helper.InternalError("failed to save profile", err)
	}
	return alumni, nil
}

func (s *profileService) UploadPhoto(ctx context.Context, alumniID uint, filename string, data []byte) (string, error) {
	if s.uploader == nil {
		return "", helper.UnavailableError("photo uploads are not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !utils.ImageExtensions[ext] {
		return "", helper.ValidationError("only jpg/jpeg/png/webp allowed")
	}
	if len(data) > MaxPhotoSize {
		return "", helper.ValidationError("file too large (max 5MB)")
	}

	alumni, err := s.GetProfile(ctx, alumniID)
	if err != nil {
		return "", err
	}

	jpg, err := utils.NormalizeToJPG(data, photoMaxWidth, photoQuality)
	if err != nil {
		return "", helper.ValidationError("file is not a readable image")
	}

	url, err := s.uploader.UploadBytes(ctx, photoFolder, fmt.Sprintf("alumni-%d", alumni.ID), jpg)
	if err != nil {
		return "", helper.InternalError("photo upload failed", err)
	}

	alumni.PhotoURL = url
	if err := s.repo.SaveAlumni(ctx, alumni); err != nil {
		return "", helper.InternalError("failed to save profile", err)
	}

	s.logger.Info("photo updated", zap.Uint("alumni_id", alumni.ID))
	return url, nil
}

func (s *profileService) ListEducation(ctx context.Context, alumniID uint) ([]domain.Education, error) {
	items, err := s.eduRepo.ListByAlumni(ctx, alumniID)
	if err != nil {
		return nil, helper.InternalError("failed to load education", err)
	}
	return items, nil
}

func (s *profileService) AddEducation(ctx context.Context, alumniID uint, input dto.EducationRequest) (*domain.Education, error) {
	input.Institution = strings.TrimSpace(input.Institution)
	input.Degree = strings.TrimSpace(input.Degree)
	input.Field = strings.TrimSpace(input.Field)
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}

	edu := &domain.Education{
		AlumniID:    alumniID,
		Institution: input.Institution,
		Degree:      input.Degree,
		Field:       input.Field,
		StartYear:   int(input.StartYear),
	}
	if input.EndYear != nil {
		end := int(*input.EndYear)
		if end < edu.StartYear {
			return nil, helper.ValidationError("endYear cannot be before startYear")
		}
		edu.EndYear = &end
	}

	if err := s.eduRepo.CreateEducation(ctx, edu); err != nil {
		return nil, helper.InternalError("failed to save education", err)
	}
	return edu, nil
}

func (s *profileService) DeleteEducation(ctx context.Context, alumniID, educationID uint) error {
	if err := s.eduRepo.DeleteOwned(ctx, alumniID, educationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFoundError("education entry not found")
		}
		return helper.InternalError("failed to delete education", err)
	}
	return nil
}
