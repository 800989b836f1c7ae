package request

import (
	"errors"
	"regexp"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
)

var (
	errInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")

	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)
	usernameExp = regexp.MustCompile(`^[\w.@+-]+$`)
)

func strongPassword(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	ok, err := passwordExp.MatchString(s)
	if err != nil || !ok {
		return errInvalidPassword
	}
	return nil
}

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Password2      string `json:"password2"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	SecretQuestion string `json:"secret_question"`
	SecretAnswer   string `json:"secret_answer"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, 150), validation.Match(usernameExp)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.By(strongPassword)),
		validation.Field(&req.Password2, validation.Required),
		validation.Field(&req.FirstName, validation.Length(0, 150)),
		validation.Field(&req.LastName, validation.Length(0, 150)),
		validation.Field(&req.SecretQuestion, validation.Length(0, 255)),
		validation.Field(&req.SecretAnswer, validation.Length(0, 255)),
	)
	if err != nil {
		return err
	}

	if req.Password != req.Password2 {
		return validation.Errors{"password2": errConfirmPasswordMismatch}
	}

	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type SecretQuestionRequest struct {
	Identifier string `json:"identifier"`
}

func (req *SecretQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Identifier, validation.Required),
	)
}

type ResetPasswordRequest struct {
	Identifier  string `json:"identifier"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

func (req *ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Identifier, validation.Required),
		validation.Field(&req.Answer, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.By(strongPassword)),
	)
}
