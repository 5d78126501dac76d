package models

// Roles a ward member can sign up with.
const RoleDoctor = "doctor"
const RoleNurse = "nurse"

type User struct {
	ID           int    `json:"id"`
	AccountID    string `json:"accountId"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Affiliation  string `json:"affiliation"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	Token        string `json:"-"`
}

// Profile holds the mutable, non-credential fields of a User. None of them
// carry a uniqueness constraint; only AccountID is unique.
type Profile struct {
	Name        string
	PhoneNumber string
	Affiliation string
	Role        string
}
