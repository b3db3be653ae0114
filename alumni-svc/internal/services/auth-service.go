package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper/utils"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/interfaces"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
)

const (
	DefaultOTPTTL = 10 * time.Minute
	otpLength     = 6
	// generated password length in random bytes (16 URL-safe characters)
	secretBytes = 12
)

// CodeRequest identifies who a one-time code is for and why.
type CodeRequest struct {
	Email   string
	Phone   string
	Purpose domain.OTPPurpose
	// Profile is required for registration purposes.
	Profile *dto.RegistrationProfile
}

type AuthService interface {
	RequestCode(ctx context.Context, req CodeRequest) (uint, error)
	RequestRegistrationCode(ctx context.Context, input dto.SendOTPRequest) (uint, error)
	RequestLoginCode(ctx context.Context, input dto.SendLoginOTPRequest) (uint, error)

	ValidateCode(ctx context.Context, alumniID uint, code string, purpose domain.OTPPurpose) (*domain.Alumni, error)
	CompleteRegistration(ctx context.Context, alumniID uint, input dto.RegisterRequest) (*dto.LoginResponse, error)
	CompleteLogin(ctx context.Context, alumniID uint) (*dto.LoginResponse, error)

	Register(ctx context.Context, input dto.RegisterRequest) (*dto.LoginResponse, error)
	VerifyLogin(ctx context.Context, input dto.VerifyLoginOTPRequest) (*dto.LoginResponse, error)
}

type authService struct {
	repo     repository.AlumniRepository
	otpRepo  repository.OTPRepository
	notifier interfaces.Notifier
	limiter  interfaces.RateLimiter
	auth     helper.Auth
	otpTTL   time.Duration
	logger   *zap.Logger

	now     func() time.Time
	newCode func() (string, error)
}

func NewAuthService(
	repo repository.AlumniRepository,
	otpRepo repository.OTPRepository,
	notifier interfaces.Notifier,
	limiter interfaces.RateLimiter,
	auth helper.Auth,
	otpTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &authService{
		repo:     repo,
		otpRepo:  otpRepo,
		notifier: notifier,
		limiter:  limiter,
		auth:     auth,
		otpTTL:   otpTTL,
		logger:   logger.Named("auth"),
		now:      time.Now,
		newCode:  generateCode,
	}
}

// generateCode returns a zero-padded 6 digit code from crypto/rand.
func generateCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n.Int64()), nil
}

// REQUEST

func (s *authService) RequestRegistrationCode(ctx context.Context, input dto.SendOTPRequest) (uint, error) {
	input.Normalize()
	if err := helper.ValidateStruct(input); err != nil {
		return 0, err
	}

	var purpose domain.OTPPurpose
	switch strings.ToUpper(strings.TrimSpace(input.OTPType)) {
	case "EMAIL":
		purpose = domain.OTPRegistrationEmail
	case "PHONE":
		purpose = domain.OTPRegistrationPhone
	case "":
		purpose = domain.OTPRegistrationEmail
		if strings.TrimSpace(input.Email) == "" {
			purpose = domain.OTPRegistrationPhone
		}
	default:
		return 0, helper.ValidationError("otpType must be EMAIL or PHONE")
	}

	profile := input.RegistrationProfile
	return s.RequestCode(ctx, CodeRequest{
		Email:   input.Email,
		Phone:   input.Phone,
		Purpose: purpose,
		Profile: &profile,
	})
}

func (s *authService) RequestLoginCode(ctx context.Context, input dto.SendLoginOTPRequest) (uint, error) {
	input.Email = utils.NormalizeEmail(input.Email)
	if err := helper.ValidateStruct(input); err != nil {
		return 0, err
	}
	return s.RequestCode(ctx, CodeRequest{Email: input.Email, Purpose: domain.OTPLogin})
}

func (s *authService) RequestCode(ctx context.Context, req CodeRequest) (uint, error) {
	email := utils.NormalizeEmail(req.Email)
	phone := utils.NormalizePhone(req.Phone)

	if email == "" && phone == "" {
		return 0, helper.ValidationError("email or phone is required")
	}
	if phone != "" && !utils.ValidPhone(phone) {
		return 0, helper.ValidationError("phone must be 7 to 15 digits, optionally starting with +")
	}

	var (
		channel dto.NotificationChannel
		to      string
	)
	switch req.Purpose {
	case domain.OTPRegistrationEmail, domain.OTPLogin:
		if email == "" {
			return 0, helper.ValidationError("email is required")
		}
		channel, to = dto.ChannelEmail, email
	case domain.OTPRegistrationPhone:
		if phone == "" {
			return 0, helper.ValidationError("phone is required")
		}
		channel, to = dto.ChannelSMS, phone
	default:
		return 0, helper.ValidationError("unknown code purpose")
	}

	if req.Purpose.IsRegistration() {
		if req.Profile == nil {
			return 0, helper.ValidationError("profile is required")
		}
		req.Profile.Normalize()
		if err := helper.ValidateStruct(req.Profile); err != nil {
			return 0, err
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, to, string(req.Purpose)); err != nil {
			return 0, err
		}
	}

	var (
		alumni *domain.Alumni
		err    error
	)
	if req.Purpose.IsRegistration() {
		alumni, err = s.prepareRegistrant(ctx, email, phone, req.Profile)
	} else {
		alumni, err = s.findLoginAccount(ctx, email)
	}
	if err != nil {
		return 0, err
	}

	code, err := s.newCode()
	if err != nil {
		return 0, helper.InternalError("failed to generate code", err)
	}

	now := s.now()
	otp := &domain.OTP{
		AlumniID:  alumni.ID,
		Code:      code,
		Purpose:   req.Purpose,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otpRepo.CreateOTP(ctx, otp); err != nil {
		return 0, helper.InternalError("failed to store code", err)
	}

	// the code stays issued even when delivery fails; the client may ask again
	err = s.notifier.Send(ctx, dto.Notification{
		Channel:    channel,
		Kind:       dto.KindOTP,
		To:         to,
		Name:       alumni.FullName(),
		Code:       code,
		Purpose:    string(req.Purpose),
		TTLMinutes: int(s.otpTTL.Minutes()),
	})
	if err != nil {
		return 0, helper.InternalError("failed to send verification code", err)
	}

	s.logger.Info("code issued",
		zap.Uint("alumni_id", alumni.ID),
		zap.String("purpose", string(req.Purpose)),
		zap.String("channel", string(channel)),
	)
	return alumni.ID, nil
}

// prepareRegistrant rejects contacts that already belong to a verified
// alumni, then reuses the pending row for the contact or creates one.
func (s *authService) prepareRegistrant(ctx context.Context, email, phone string, profile *dto.RegistrationProfile) (*domain.Alumni, error) {
	if email != "" {
		if _, err := s.repo.FindVerifiedByEmail(ctx, email); err == nil {
			return nil, helper.ConflictError("an account with this email already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, helper.InternalError("failed to look up alumni", err)
		}
	}
	if phone != "" {
		if _, err := s.repo.FindVerifiedByPhone(ctx, phone); err == nil {
			return nil, helper.ConflictError("an account with this phone number already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, helper.InternalError("failed to look up alumni", err)
		}
	}

	pending, err := s.findPending(ctx, email, phone)
	if err != nil {
		return nil, err
	}

	if pending == nil {
		pending = &domain.Alumni{Role: domain.RoleBaseMember, Verified: false}
	}
	if email != "" {
		pending.Email = email
	}
	if phone != "" {
		pending.Phone = phone
	}
	applyRegistrationProfile(pending, profile)

	if pending.ID == 0 {
		err = s.repo.CreateAlumni(ctx, pending)
	} else {
		err = s.repo.SaveAlumni(ctx, pending)
	}
	if err != nil {
		return nil, helper.InternalError("failed to save alumni", err)
	}
	return pending, nil
}

func (s *authService) findPending(ctx context.Context, email, phone string) (*domain.Alumni, error) {
	if email != "" {
		a, err := s.repo.FindUnverifiedByEmail(ctx, email)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, helper.InternalError("failed to look up alumni", err)
		}
	}
	if phone != "" {
		a, err := s.repo.FindUnverifiedByPhone(ctx, phone)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, helper.InternalError("failed to look up alumni", err)
		}
	}
	return nil, nil
}

func (s *authService) findLoginAccount(ctx context.Context, email string) (*domain.Alumni, error) {
	alumni, err := s.repo.FindVerifiedByEmail(ctx, email)
	if err == nil {
		return alumni, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, helper.InternalError("failed to look up alumni", err)
	}

	if _, err := s.repo.FindUnverifiedByEmail(ctx, email); err == nil {
		return nil, helper.UnauthorizedError("account not verified")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, helper.InternalError("failed to look up alumni", err)
	}
	return nil, helper.NotFoundError("no account found for this email")
}

func applyRegistrationProfile(a *domain.Alumni, p *dto.RegistrationProfile) {
	a.FirstName = p.FirstName
	a.LastName = p.LastName
	a.JoiningYear = int(p.JoiningYear)
	a.PassingYear = int(p.PassingYear)
	a.Department = p.Department
	a.College = p.College
	a.Course = p.Course
}

// VALIDATE

func (s *authService) ValidateCode(ctx context.Context, alumniID uint, code string, purpose domain.OTPPurpose) (*domain.Alumni, error) {
	alumni, err := s.repo.FindAlumniByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("alumni not found")
		}
		return nil, helper.InternalError("failed to look up alumni", err)
	}

	otp, err := s.otpRepo.FindLatestUnused(ctx, alumni.ID, purpose.LookupPurposes())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("no valid code")
		}
		return nil, helper.InternalError("failed to look up code", err)
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(strings.TrimSpace(code))) != 1 {
		return nil, helper.InvalidCodeError("invalid code")
	}
	if otp.IsExpired(s.now()) {
		return nil, helper.ExpiredError("code has expired")
	}

	consumed, err := s.otpRepo.MarkUsed(ctx, otp.ID)
	if err != nil {
		return nil, helper.InternalError("failed to consume code", err)
	}
	if !consumed {
		// a concurrent request consumed it first
		return nil, helper.NotFoundError("no valid code")
	}
	return alumni, nil
}

// COMPLETE

func (s *authService) CompleteRegistration(ctx context.Context, alumniID uint, input dto.RegisterRequest) (*dto.LoginResponse, error) {
	alumni, err := s.repo.FindAlumniByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("alumni not found")
		}
		return nil, helper.InternalError("failed to look up alumni", err)
	}
	if alumni.Verified {
		return nil, helper.ConflictError("account is already verified")
	}

	secret, err := helper.GenerateSecret(secretBytes)
	if err != nil {
		return nil, helper.InternalError("failed to generate password", err)
	}
	hashed, err := helper.HashSecret(secret)
	if err != nil {
		return nil, helper.InternalError("failed to hash password", err)
	}

	profile := input.RegistrationProfile
	applyRegistrationProfile(alumni, &profile)
	alumni.CurrentCompany = input.CurrentCompany
	alumni.Designation = input.Designation
	alumni.City = input.City
	alumni.Country = input.Country
	alumni.Bio = input.Bio
	alumni.PasswordHash = hashed
	alumni.Verified = true
	if alumni.Role == "" {
		alumni.Role = domain.RoleBaseMember
	}

	if err := s.repo.SaveAlumni(ctx, alumni); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, helper.ConflictError("an account with this email or phone is already registered")
		}
		return nil, helper.InternalError("failed to save alumni", err)
	}

	n := dto.Notification{
		Channel: dto.ChannelEmail,
		Kind:    dto.KindRegistrationSuccess,
		To:      alumni.Email,
		Name:    alumni.FullName(),
		Secret:  secret,
	}
	if alumni.Email == "" {
		n.Channel, n.To = dto.ChannelSMS, alumni.Phone
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Warn("registration notification failed", zap.Uint("alumni_id", alumni.ID), zap.Error(err))
	}

	s.logger.Info("alumni registered", zap.Uint("alumni_id", alumni.ID))
	return s.issue(alumni)
}

func (s *authService) CompleteLogin(ctx context.Context, alumniID uint) (*dto.LoginResponse, error) {
	alumni, err := s.repo.FindAlumniByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NotFoundError("alumni not found")
		}
		return nil, helper.InternalError("failed to look up alumni", err)
	}
	if !alumni.Verified {
		return nil, helper.UnauthorizedError("account not verified")
	}
	return s.issue(alumni)
}

func (s *authService) issue(alumni *domain.Alumni) (*dto.LoginResponse, error) {
	token, err := s.auth.GenerateToken(alumni.ID, alumni.Email, alumni.Role)
	if err != nil {
		return nil, helper.InternalError("failed to issue token", err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewAlumniProfileResponse(alumni),
	}, nil
}

// COMPOSITES

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.LoginResponse, error) {
	input.Normalize()
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.ValidateCode(ctx, input.AlumniID, input.OTP, domain.OTPRegistrationEmail); err != nil {
		return nil, err
	}
	return s.CompleteRegistration(ctx, input.AlumniID, input)
}

func (s *authService) VerifyLogin(ctx context.Context, input dto.VerifyLoginOTPRequest) (*dto.LoginResponse, error) {
	input.OTP = strings.TrimSpace(input.OTP)
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.ValidateCode(ctx, input.AlumniID, input.OTP, domain.OTPLogin); err != nil {
		return nil, err
	}
	return s.CompleteLogin(ctx, input.AlumniID)
}
