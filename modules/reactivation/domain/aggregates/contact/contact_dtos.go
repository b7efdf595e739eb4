package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/velocity-exotics/crm-platform/pkg/constants"
	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

type CreateDTO struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	LastRentalDate string `json:"last_rental_date"`
	TotalRentals   *int64 `json:"total_rentals"`
	LifetimeValue  string `json:"lifetime_value"`
	Instagram      string `json:"instagram"`
}

func (d *CreateDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	d.Location = strings.TrimSpace(d.Location)
	d.Instagram = strings.TrimPrefix(strings.TrimSpace(d.Instagram), "@")
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	if d.Email == "" && d.Phone == "" {
		return serrors.ValidationErrors{
			"email": "a contact needs an email or a phone",
		}, false
	}
	return serrors.ValidationErrors{}, true
}

type UpdateDTO struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Company        *string `json:"company"`
	Location       *string `json:"location"`
	LastRentalDate *string `json:"last_rental_date"`
	TotalRentals   *int64  `json:"total_rentals"`
	LifetimeValue  *string `json:"lifetime_value"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=new contacted responded booked opted_out"`
}

func (d *UpdateStatusDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}
