package helper

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type accessClaims struct {
	AlumniID uint   `json:"alumniId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and verifies access tokens. It keeps no state besides the secret:
// tokens are never stored and cannot be revoked before they expire.
type Auth struct {
	Secret string
	TTL    time.Duration
	now    func() time.Time
}

func SetupAuth(secret string, ttl time.Duration) Auth {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return Auth{
		Secret: secret,
		TTL:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of a that reads time from now.
func (a Auth) WithClock(now func() time.Time) Auth {
	a.now = now
	return a
}

func (a Auth) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a Auth) GenerateToken(alumniID uint, email string, role domain.Role) (string, error) {
	if alumniID == 0 || role == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := a.clock()
	ttl := a.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		AlumniID: alumniID,
		Email:    email,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}

	return tokenStr, nil
}

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header of the exact
// form "Bearer <token>".
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == strings.TrimSpace(bearerPrefix) {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// VerifyToken checks a raw token, without the auth scheme.
func (a Auth) VerifyToken(tokenString string) (dto.AuthResponse, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthResponse{}, ErrMissingToken
	}

	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	}, jwt.WithTimeFunc(a.clock), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.AuthResponse{}, ErrTokenExpired
		}
		return dto.AuthResponse{}, ErrInvalidToken
	}
	if claims.AlumniID == 0 {
		return dto.AuthResponse{}, ErrInvalidToken
	}

	resp := dto.AuthResponse{
		AlumniID: claims.AlumniID,
		Email:    claims.Email,
		Role:     claims.Role,
		Expiry:   float64(claims.ExpiresAt.Unix()),
	}
	if claims.IssuedAt != nil {
		resp.Iat = float64(claims.IssuedAt.Unix())
	}
	return resp, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.AuthResponse, error) {
	u := ctx.Locals("user")
	claims, ok := u.(dto.AuthResponse)
	if !ok {
		return dto.AuthResponse{}, errors.New("missing auth user in context")
	}
	return claims, nil
}

// GenerateSecret returns a random URL-safe credential of n random bytes.
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashSecret(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash secret")
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword(
		[]byte(hashed),
		[]byte(plain),
	); err != nil {
		return errors.New("invalid credentials")
	}
	return nil
}
