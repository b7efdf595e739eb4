package note

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/velocity-exotics/crm-platform/pkg/constants"
	"github.com/velocity-exotics/crm-platform/pkg/serrors"
)

type CreateDTO struct {
	Body string `json:"body" validate:"required,max=10000"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Body = strings.TrimSpace(d.Body)
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}
