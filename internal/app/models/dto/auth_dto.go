package dto

// RegisterRequest carries a student registration submission
type RegisterRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Residence     string `json:"residence" binding:"required"`
	Block         string `json:"block" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

// LoginRequest carries login credentials for either role
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminProfile is the user payload returned on admin login
type AdminProfile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// StudentProfile is the user payload returned on student login
type StudentProfile struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Residence string `json:"residence"`
	Block     string `json:"block"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
	Role    string      `json:"role"`
}
