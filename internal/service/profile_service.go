package service

import (
	"context"
	"errors"

	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// ProfileUpdate carries the editable profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
	Bio       *string
}

type ProfileService interface {
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	Get(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	if p.Role == "" {
		p.Role = model.RoleStudent
	}
	if p.Role != model.RoleStudent && p.Role != model.RoleTeacher {
		return nil, ErrInvalidRole
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, id string, upd ProfileUpdate) (*model.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}
