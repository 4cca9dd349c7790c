package auth

// Credential is the login projection of a user and its coupled employee.
type Credential struct {
	UserID       string `gorm:"column:user_id"`
	Username     string `gorm:"column:username"`
	PasswordHash string `gorm:"column:password"`
	Role         string `gorm:"column:role"`
	EmployeeID   string `gorm:"column:employee_id"`
	FirstName    string `gorm:"column:first_name"`
	LastName     string `gorm:"column:last_name"`
	Email        string `gorm:"column:email"`
}
