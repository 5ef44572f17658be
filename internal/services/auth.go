package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// RegisterParams carries a registration request.
type RegisterParams struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	KnownAs     string    `json:"known_as"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// AuthService handles registration, login and token validation. The
// rest of the services never see tokens, only the numeric caller id
// the middleware extracts.
type AuthService struct {
	users     UserStore
	jwtSecret string
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, now: time.Now}
}

// Register creates a new user. Usernames are case-normalized to
// lowercase and must be unique.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(p.Username))
	if username == "" || len(p.Password) < 4 {
		return nil, fmt.Errorf("username and a password of at least 4 characters are required: %w", apperr.ErrInvalidInput)
	}
	if p.Gender != models.GenderMale && p.Gender != models.GenderFemale {
		return nil, fmt.Errorf("unknown gender %q: %w", p.Gender, apperr.ErrInvalidInput)
	}
	if p.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("date of birth is required: %w", apperr.ErrInvalidInput)
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("username %q: %w", username, apperr.ErrUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Gender:       p.Gender,
		DateOfBirth:  p.DateOfBirth,
		KnownAs:      p.KnownAs,
		City:         p.City,
		Country:      p.Country,
		Created:      now,
		LastActive:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("login: %w", apperr.ErrForbidden)
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, fmt.Errorf("login: %w", apperr.ErrForbidden)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Username,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and returns the caller's user id.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("sub claim not found in token")
	}
	return int64(sub), nil
}
