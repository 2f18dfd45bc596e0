package service

import (
	"errors"
	"fmt"

	"go-helpdesk-api/internal/model"
	"go-helpdesk-api/internal/repository"
	"go-helpdesk-api/pkg/validator"

	"github.com/google/uuid"
)

var ErrEmailExists = errors.New("email already exists")

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(userID uuid.UUID) error
	UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Branch   string `json:"branch"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName string  `json:"full_name" validate:"required"`
	Branch   string  `json:"branch"`
	RoleID   uint    `json:"role_id" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	if errList := validator.ValidateStruct(req); len(errList) > 0 {
		first := errList[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Branch:   req.Branch,
		RoleID:   &req.RoleID,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// New users start with their role's privilege set.
	user.Privileges = role.Privileges

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if errList := validator.ValidateStruct(req); len(errList) > 0 {
		first := errList[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.Branch = req.Branch
	user.RoleID = &req.RoleID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	// Changing role resets privileges to the role's set.
	user.Privileges = role.Privileges

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uuid.UUID) error {
	return s.userRepo.Delete(userID)
}

func (s *userService) UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = updaterID
	s.userRepo.Update(user)

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}
