package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterResponse struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Email string `json:"email"`
}

type CheckUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CheckUserResponse struct {
	Exists bool   `json:"exists"`
	Email  string `json:"email"`
}
