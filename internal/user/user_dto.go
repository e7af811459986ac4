package user

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin driver"`
	DriverID *int64 `json:"driver_id"`
}

type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	DriverID  *int64 `json:"driver_id"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
