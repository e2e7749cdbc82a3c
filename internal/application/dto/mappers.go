package dto

import "github.com/jhoicas/myshop-api/internal/domain/entity"

// NewCategoryResponse mapea la entidad a su salida.
func NewCategoryResponse(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// NewProductResponse mapea la entidad a su salida.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
	}
}

// NewUserResponse mapea la entidad a su salida.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:                     u.ID,
		PhoneNumber:            u.PhoneNumber,
		Name:                   u.Name,
		Role:                   u.Role,
		AllowSharingData:       u.AllowSharingData,
		AllowPushNotifications: u.AllowPushNotifications,
		AllowPushEmails:        u.AllowPushEmails,
		AllowPushSms:           u.AllowPushSms,
		CreatedAt:              u.CreatedAt,
	}
}
