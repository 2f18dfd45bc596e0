package repository

import (
	"errors"

	"go-helpdesk-api/internal/errs"

	"gorm.io/gorm"
)

// translate wraps driver-level failures as ConnectivityError so services can
// tell an unreachable database apart from domain conditions. Record-not-found
// passes through untouched; the services map it to their own sentinels.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return errs.Connectivity(op, err)
}
