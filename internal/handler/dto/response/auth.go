package response

import (
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	UserID      uuid.UUID `json:"userId"`
	AccessToken string    `json:"accessToken"`
}

type MeResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"isActive"`
}

func FromAuthorizedUserView(rm *queries.AuthorizedUserView) *MeResponse {
	return &MeResponse{
		ID:       rm.ID,
		Email:    rm.Email,
		Role:     rm.Role,
		IsActive: rm.IsActive,
	}
}
