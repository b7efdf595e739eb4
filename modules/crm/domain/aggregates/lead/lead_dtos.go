package lead

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/velocity-exotics/crm-platform/pkg/constants"
	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

type CreateDTO struct {
	CompanyName    string `json:"company_name" validate:"required"`
	ContactName    string `json:"contact_name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Title          string `json:"title"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Source         string `json:"source"`
	Status         string `json:"status" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	EstimatedValue string `json:"estimated_value"`
	FleetSize      *int64 `json:"fleet_size"`
	NextFollowUp   string `json:"next_follow_up"`
	Instagram      string `json:"instagram"`
}

func (d *CreateDTO) Normalize() {
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.ContactName = strings.TrimSpace(d.ContactName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Title = strings.TrimSpace(d.Title)
	d.Website = strings.TrimSpace(d.Website)
	d.Location = strings.TrimSpace(d.Location)
	d.Source = strings.TrimSpace(d.Source)
	d.Instagram = strings.TrimPrefix(strings.TrimSpace(d.Instagram), "@")
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

type UpdateDTO struct {
	CompanyName    *string `json:"company_name"`
	ContactName    *string `json:"contact_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Title          *string `json:"title"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Source         *string `json:"source"`
	EstimatedValue *string `json:"estimated_value"`
	FleetSize      *int64 `json:"fleet_size"`
	NextFollowUp   *string `json:"next_follow_up"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified proposal won lost"`
}

func (d *UpdateStatusDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}
