package driver

import (
	"errors"

	drivererrors "go-fleetpay/internal/driver/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return drivererrors.ErrDriverNotFound
	}
	return err
}
