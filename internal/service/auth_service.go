package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/internal/ws"
	"go-helpdesk-api/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

// inactivityLimit is how long a session survives without a heartbeat.
const inactivityLimit = 5 * time.Minute

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// Single session: rotating the token version invalidates any token the
	// same account holds elsewhere.
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastSeenAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes(), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Strict session: the token must carry the current version.
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	// Inactivity check. A nil LastSeenAt means the session never sent a
	// heartbeat, so force a fresh login.
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > inactivityLimit {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	s.wsHub.Publish("user_status_update", eventMap{
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": time.Now(),
	})
	return nil
}
