package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/farmlog/farmlog-api/internal/domain"
)

type UpdateProfileRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	SecretQuestion  *string `json:"secret_question"`
	SecretAnswer    string  `json:"secret_answer"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.NilOrNotEmpty, validation.Length(3, 150), validation.Match(usernameExp)),
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&req.FirstName, validation.Length(0, 150)),
		validation.Field(&req.LastName, validation.Length(0, 150)),
		validation.Field(&req.SecretQuestion, validation.Length(0, 255)),
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.By(strongPassword)),
	)
}

func (req *UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		SecretQuestion:  req.SecretQuestion,
		SecretAnswer:    req.SecretAnswer,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

func (req *DeleteAccountRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Password, validation.Required),
	)
}
