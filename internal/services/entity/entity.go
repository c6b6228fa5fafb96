// Package entity содержит бизнес-логику создания и чтения платных заявок
// с кешированием чтений.
package entity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizportal/bizportal/internal/lib/sl"
	"github.com/bizportal/bizportal/internal/models"
	"github.com/bizportal/bizportal/internal/storage/repository"
)

// Ошибки сервиса заявок.
var (
	// ErrEntityNotFound — заявка не найдена.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrForbidden — заявка принадлежит другому пользователю.
	ErrForbidden = errors.New("actor has no access to the entity")
	// ErrUnknownKind — неизвестный вид заявки.
	ErrUnknownKind = errors.New("unknown entity kind")
)

var knownKinds = map[string]bool{
	models.KindLegal:    true,
	models.KindMentor:   true,
	models.KindTraining: true,
}

// Repository определяет методы хранилища заявок.
type Repository interface {
	CreateEntity(ctx context.Context, entity models.Entity) (string, error)
	ReadEntity(ctx context.Context, id string) (*models.Entity, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// CacheKey возвращает ключ кеша для заявки.
func CacheKey(entityID string) string {
	return "entity:" + entityID
}

// Service реализует бизнес-логику работы с заявками.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую заявку в статусе draft и возвращает её ID.
func (s *Service) Create(ctx context.Context, owner models.Principal, kind string, req models.DummyEntity) (string, error) {
	if !knownKinds[kind] {
		return "", ErrUnknownKind
	}

	entity := models.Entity{
		ID:       uuid.New().String(),
		OwnerUID: owner.UID,
		Kind:     kind,
		Title:    req.Title,
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   models.StatusDraft,
	}

	id, err := s.repo.CreateEntity(ctx, entity)
	if err != nil {
		return "", err
	}

	s.log.Info("created new entity",
		slog.String("id", id), slog.String("kind", kind))

	cacheKey := CacheKey(id)
	if err := s.cache.Set(cacheKey, entity, time.Minute); err != nil {
		s.log.Warn("failed to cache entity", slog.String("key", cacheKey), sl.Err(err))
	}

	return id, nil
}

// Read возвращает заявку по ID, используя кеш или репозиторий.
// Непустой kind сверяется с видом заявки, несовпадение отвечает
// "не найдено". Доступ есть у владельца и привилегированных ролей.
func (s *Service) Read(ctx context.Context, id, kind string, actor models.Principal) (*models.Entity, error) {
	var result *models.Entity
	cacheKey := CacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		result, err = s.repo.ReadEntity(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrEntityNotFound
			}
			return nil, fmt.Errorf("entity.Read: %w", err)
		}
		if err := s.cache.Set(cacheKey, result, time.Minute); err != nil {
			s.log.Warn("failed to cache entity", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	if kind != "" && result.Kind != kind {
		return nil, ErrEntityNotFound
	}
	if result.OwnerUID != actor.UID && !actor.Privileged() {
		return nil, ErrForbidden
	}
	return result, nil
}
