package auth

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(c *Credential) UserResponse {
	return UserResponse{
		UserID:     c.UserID,
		EmployeeID: c.EmployeeID,
		Username:   c.Username,
		Role:       c.Role,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
	}
}
