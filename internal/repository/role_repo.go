package repository

import (
	"errors"

	"go-helpdesk-api/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	SeedDefaults() error
	ReplacePrivileges(role *model.Role, privileges []model.Privilege) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges").Find(&roles).Error
	return roles, translate("role list", err)
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, translate("role find", err)
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, translate("role find", err)
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults() error {
	for _, defaultRole := range model.DefaultRoles {
		var existing model.Role
		err := r.db.Where("code = ?", defaultRole.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&defaultRole).Error; err != nil {
				return translate("role seed", err)
			}
		}
	}
	return nil
}

func (r *roleRepo) ReplacePrivileges(role *model.Role, privileges []model.Privilege) error {
	return translate("role update privileges",
		r.db.Model(role).Association("Privileges").Replace(privileges))
}
