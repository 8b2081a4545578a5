package dto

import "github.com/jhoicas/Restaurante-api/internal/domain/entity"

// NewProductResponse convierte la entidad en su DTO de salida.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		OpeningStock: p.OpeningStock,
		Category:     string(p.Category),
		ImageURL:     p.ImageURL,
		IsActive:     p.IsActive,
		CreatedByID:  p.CreatedByID,
		CreatedBy:    newUserRef(p.CreatedBy),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewMovementResponse convierte la entidad en su DTO de salida.
func NewMovementResponse(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:           m.ID,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		ExecutedByID: m.ExecutedByID,
		ExecutedBy:   newUserRef(m.ExecutedBy),
		Date:         m.Date,
	}
}

// NewUserResponse convierte la entidad en su DTO de salida.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newUserRef(r *entity.UserRef) *UserRefResponse {
	if r == nil {
		return nil
	}
	return &UserRefResponse{Name: r.Name, Email: r.Email}
}
