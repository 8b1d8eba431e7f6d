package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	DisplayName     string `json:"display_name"`
	AdminInviteCode string `json:"admin_invite_code,omitempty"`
}

type SignUpResponse struct {
	User                 UserDTO `json:"user"`
	VerificationRequired bool    `json:"verification_required"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type SetUserRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserDTO struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at"`
}

type SessionDTO struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token,omitempty"`
	IssuedAt    string `json:"issued_at"`
	ExpiresAt   string `json:"expires_at"`
}

type SessionResponse struct {
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

type UserResponse struct {
	User UserDTO `json:"user"`
}
