package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreditPoints int       `json:"credit_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the safe projection returned to clients. It never carries the
// password hash.
// swagger:model
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreditPoints int       `json:"credit_points"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		CreditPoints: u.CreditPoints,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResult is the response of sign-up and login.
// swagger:model
type AuthResult struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}
