package dto

import "time"

// RegisterRequest entrada para registro (auth). No hay password: el login es simulado.
// El usuario registrado siempre queda con rol USER.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"omitempty,max=200"`
}

// UpdateRoleRequest body de PATCH /api/users/:id/role. UserID solo se usa en PATCH /api/users.
type UpdateRoleRequest struct {
	UserID string `json:"user_id" validate:"omitempty"`
	Role   string `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login simulado: solo email.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
