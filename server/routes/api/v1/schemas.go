package v1

import "strings"

// CreateUserReq is the body of POST /user/register.
type CreateUserReq struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=200"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	// Role defaults to USER. ADMIN accounts cannot register themselves.
	Role     string `json:"role" validate:"omitempty,oneof=USER AGENT"`
}

func (r *CreateUserReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

// LoginReq is the body of POST /auth/login.
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginReq) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}
