package dto

import (
	"time"

	"learnhub/internal/model"
)

// ProfileCreateDTO is used for incoming create requests
type ProfileCreateDTO struct {
	FullName  string `json:"full_name" validate:"required,max=200"`
	Role      string `json:"role" validate:"omitempty,oneof=student teacher"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	Bio       string `json:"bio" validate:"max=2000"`
}

type ProfileUpdateDTO struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// ProfileResponseDTO is returned in API responses
type ProfileResponseDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProfileResponse(p *model.Profile) ProfileResponseDTO {
	return ProfileResponseDTO{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
