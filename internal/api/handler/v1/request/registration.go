package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CheckInRequest struct {
	QRToken string `json:"qr_token"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRToken, validation.Required, validation.Length(3, 300)),
	)
}
