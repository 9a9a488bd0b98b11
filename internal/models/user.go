package models

import "time"

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Pseudo         string     `json:"pseudo"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	PasswordHash   string     `json:"-"`
	TotalPoints    int        `json:"total_points"`
	IsAdmin        bool       `json:"is_admin"`
	ResetToken     *string    `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile is the subset of a user returned by the "me" action.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Pseudo    string    `json:"pseudo"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Pseudo:    u.Pseudo,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate holds optional profile fields; nil means "leave unchanged".
type ProfileUpdate struct {
	Pseudo    *string
	FirstName *string
	LastName  *string
}
