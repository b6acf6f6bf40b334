package model

// SignUpRequest represents the sign-up form payload
type SignUpRequest struct {
	Email           string `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
}

// LoginRequest represents the login form payload
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// SignUpResponse represents the outcome of a sign-up call
type SignUpResponse struct {
	Message              string `json:"message"`
	UserID               string `json:"user_id,omitempty"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}
