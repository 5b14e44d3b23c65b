package request

type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=8,max=64"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type UpdateAccountRequest struct {
	Login string `json:"login" validate:"required,min=8,max=64"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=64"`
}
