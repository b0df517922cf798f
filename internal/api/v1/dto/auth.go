package dto

import "time"

// RegisterDTO is the request body for account registration.
type RegisterDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin instructor"`
}

// LoginDTO is the request body for login.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponseDTO carries the access token and the authenticated user.
type LoginResponseDTO struct {
	User        UserResponseDTO `json:"user"`
	AccessToken string          `json:"accessToken"`
}

// InstructorCreateDTO is the request body for admin-created instructors.
type InstructorCreateDTO struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// InstructorUpdateDTO is the request body for instructor updates. At least
// one field must be set.
type InstructorUpdateDTO struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UserResponseDTO is returned for a single user. The password hash never
// leaves the server.
type UserResponseDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
