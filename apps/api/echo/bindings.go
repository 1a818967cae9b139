package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/plan"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	BroadcastRequest struct {
		Title   string `json:"title" validate:"required"`
		Message string `json:"message" validate:"required"`
	}

	PlanPreviewRequest struct {
		TotalFee decimal.Decimal `json:"total_fee"`
		Cadence  plan.Cadence    `json:"cadence"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (br *BroadcastRequest) Validate(validate *validator.Validate) error {
	br.Title = core.CleanString(br.Title)
	br.Message = core.CleanString(br.Message)
	return validate.Struct(br)
}
