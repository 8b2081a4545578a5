package entity

import "time"

// Role define los permisos de un usuario.
type Role string

// Roles válidos para User.
const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid indica si el rol es conocido.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User representa un miembro del personal del restaurante.
type User struct {
	ID        string
	Email     string // único
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRef es la identidad mínima de un usuario que se muestra junto a otras entidades
// (creador de un producto, ejecutor de un movimiento).
type UserRef struct {
	Name  string
	Email string
}

// Actor es la identidad del llamador. Se construye en la capa HTTP a partir del token
// y se pasa explícitamente a cada caso de uso que modifica estado.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin indica si el actor tiene rol ADMIN.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
