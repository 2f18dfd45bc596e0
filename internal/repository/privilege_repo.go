package repository

import (
	"errors"

	"go-helpdesk-api/internal/model"

	"gorm.io/gorm"
)

type PrivilegeRepository interface {
	FindByCode(code string) (*model.Privilege, error)
	FindByCodes(codes []string) ([]model.Privilege, error)
	FindAll() ([]model.Privilege, error)
	SeedDefaults() error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

func (r *privilegeRepo) FindByCode(code string) (*model.Privilege, error) {
	var privilege model.Privilege
	if err := r.db.Where("code = ?", code).First(&privilege).Error; err != nil {
		return nil, translate("privilege find", err)
	}
	return &privilege, nil
}

func (r *privilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	var privileges []model.Privilege
	if err := r.db.Where("code IN ?", codes).Find(&privileges).Error; err != nil {
		return nil, translate("privilege find", err)
	}
	return privileges, nil
}

func (r *privilegeRepo) FindAll() ([]model.Privilege, error) {
	var privileges []model.Privilege
	if err := r.db.Find(&privileges).Error; err != nil {
		return nil, translate("privilege list", err)
	}
	return privileges, nil
}

// SeedDefaults creates default privileges if they don't exist
func (r *privilegeRepo) SeedDefaults() error {
	for _, p := range model.DefaultPrivileges {
		var existing model.Privilege
		err := r.db.Where("code = ?", p.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&p).Error; err != nil {
				return translate("privilege seed", err)
			}
		}
	}
	return nil
}
