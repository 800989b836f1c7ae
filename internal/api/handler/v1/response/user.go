package response

import "github.com/farmlog/farmlog-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type SecretQuestionResponse struct {
	SecretQuestion string `json:"secret_question"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}
