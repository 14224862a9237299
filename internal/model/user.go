package model

import "regexp"

type Position string

const (
	PositionGK Position = "GK"
	PositionDF Position = "DF"
	PositionMF Position = "MF"
	PositionFW Position = "FW"
)

func (p Position) Valid() bool {
	switch p {
	case PositionGK, PositionDF, PositionMF, PositionFW:
		return true
	}
	return false
}

var phonePattern = regexp.MustCompile(`^010-\d{4}-\d{4}$`)

// ValidPhone accepts mobile numbers written as 010-XXXX-XXXX.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// MinPasswordLength is the shortest new password accepted on change.
const MinPasswordLength = 6

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

type Profile struct {
	ID           string     `json:"id"`
	Email        string     `json:"email,omitempty"`
	Name         string     `json:"name"`
	Birthdate    *string    `json:"birthdate,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	Summary      *string    `json:"summary,omitempty"`
	Positions    []Position `json:"positions"`
}

type CreateProfileRequest struct {
	Name      string     `json:"name" validate:"required"`
	Birthdate *string    `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,phone"`
	Positions []Position `json:"positions" validate:"required,min=1,dive,position"`
	Summary   *string    `json:"summary,omitempty"`
}

type UpdateProfileRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	Birthdate *string    `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,phone"`
	Positions []Position `json:"positions,omitempty" validate:"omitempty,min=1,dive,position"`
	Summary   *string    `json:"summary,omitempty"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
