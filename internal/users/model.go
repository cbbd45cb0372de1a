package users

import "time"

// User is a staff account. The password hash never leaves the package.
type User struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Input is the account payload. Password is optional on update; when empty
// the stored hash is kept.
type Input struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	Password string `json:"password"`
	Role     string `json:"role" validate:"required"`
}
