// Package profile содержит бизнес-логику чтения и обновления анкеты.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vrxmike/biodata/internal/lib/sl"
	"github.com/vrxmike/biodata/internal/models"
)

// Repository описывает контракт хранилища для работы с анкетами.
type Repository interface {
	GetProfile(ctx context.Context, profileUID string) (*models.Profile, error)
	UpdateProfileSections(ctx context.Context, profileUID string, p models.Profile) error
}

// Cache описывает методы для инвалидации закешированных чтений.
type Cache interface {
	Invalidate(key string) error
}

// ProfileService реализует операции над анкетой.
type ProfileService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo Repository, cache Cache, log *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get возвращает анкету по её UID.
func (s *ProfileService) Get(ctx context.Context, profileUID string) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, profileUID)
}

// Update перезаписывает секции анкеты. Отсутствующие секции сохраняются
// пустыми объектами, неизвестные отбрасываются ещё при декодировании запроса.
func (s *ProfileService) Update(ctx context.Context, profileUID string, p models.Profile) error {
	existing, err := s.repo.GetProfile(ctx, profileUID)
	if err != nil {
		return err
	}

	p.FillEmptySections()
	if err := s.repo.UpdateProfileSections(ctx, profileUID, p); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("user:%s", existing.UserUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("profile updated", slog.String("profile_uid", profileUID))
	return nil
}
