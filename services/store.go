package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// Store persists one kind of entity on behalf of an authenticated user.
type Store[T models.Entity] interface {
	List(ctx context.Context, cred utils.Credentials) ([]T, error)
	Get(ctx context.Context, cred utils.Credentials, id uint) (T, error)
	// Save creates the item when its id is zero and replaces it otherwise,
	// returning the stored version.
	Save(ctx context.Context, cred utils.Credentials, item T) (T, error)
	Delete(ctx context.Context, cred utils.Credentials, id uint) error
}

// BackendStore keeps records in the REST backend under /<resource>.
type BackendStore[T models.Entity] struct {
	client   *BackendClient
	resource string
}

func NewBackendStore[T models.Entity](client *BackendClient, resource string) *BackendStore[T] {
	return &BackendStore[T]{client: client, resource: resource}
}

func (s *BackendStore[T]) itemPath(id uint) string {
	return fmt.Sprintf("/%s/%d", s.resource, id)
}

func (s *BackendStore[T]) List(ctx context.Context, cred utils.Credentials) ([]T, error) {
	var items []T
	if err := s.client.Do(ctx, cred, http.MethodGet, "/"+s.resource, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *BackendStore[T]) Get(ctx context.Context, cred utils.Credentials, id uint) (T, error) {
	var item T
	err := s.client.Do(ctx, cred, http.MethodGet, s.itemPath(id), nil, &item)
	if apperr.Is(err, apperr.KindNotFound) {
		return item, apperr.NotFound(s.resource, id)
	}
	return item, err
}

func (s *BackendStore[T]) Save(ctx context.Context, cred utils.Credentials, item T) (T, error) {
	var out T
	var err error
	if id := item.GetID(); id == 0 {
		err = s.client.Do(ctx, cred, http.MethodPost, "/"+s.resource, item, &out)
		if err == nil && out.GetID() == 0 {
			return out, apperr.Upstream("backend", 0, fmt.Errorf("created %s without an id", s.resource))
		}
	} else {
		err = s.client.Do(ctx, cred, http.MethodPut, s.itemPath(id), item, &out)
		if apperr.Is(err, apperr.KindNotFound) {
			return out, apperr.NotFound(s.resource, id)
		}
	}
	return out, err
}

func (s *BackendStore[T]) Delete(ctx context.Context, cred utils.Credentials, id uint) error {
	err := s.client.Do(ctx, cred, http.MethodDelete, s.itemPath(id), nil, nil)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.NotFound(s.resource, id)
	}
	return err
}

// GormStore keeps records in postgres, scoping every query to the caller.
type GormStore[T models.Entity, PT models.Record[T]] struct {
	db       *gorm.DB
	resource string
}

func NewGormStore[T models.Entity, PT models.Record[T]](db *gorm.DB, resource string) *GormStore[T, PT] {
	return &GormStore[T, PT]{db: db, resource: resource}
}

func (s *GormStore[T, PT]) List(ctx context.Context, cred utils.Credentials) ([]T, error) {
	var items []T
	err := s.db.WithContext(ctx).
		Where("user_id = ?", cred.UserID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.resource, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *GormStore[T, PT]) Get(ctx context.Context, cred utils.Credentials, id uint) (T, error) {
	var item T
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, cred.UserID).
		First(PT(&item)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, apperr.NotFound(s.resource, id)
	}
	if err != nil {
		return item, fmt.Errorf("get %s: %w", s.resource, err)
	}
	return item, nil
}

func (s *GormStore[T, PT]) Save(ctx context.Context, cred utils.Credentials, item T) (T, error) {
	p := PT(&item)
	p.SetOwner(cred.UserID)
	db := s.db.WithContext(ctx)

	id := item.GetID()
	if id == 0 {
		if err := db.Create(p).Error; err != nil {
			return item, fmt.Errorf("create %s: %w", s.resource, err)
		}
		return item, nil
	}

	var n int64
	if err := db.Model(PT(new(T))).Where("id = ? AND user_id = ?", id, cred.UserID).Count(&n).Error; err != nil {
		return item, fmt.Errorf("update %s: %w", s.resource, err)
	}
	if n == 0 {
		return item, apperr.NotFound(s.resource, id)
	}
	if err := db.Omit("created_at").Save(p).Error; err != nil {
		return item, fmt.Errorf("update %s: %w", s.resource, err)
	}
	return s.Get(ctx, cred, id)
}

func (s *GormStore[T, PT]) Delete(ctx context.Context, cred utils.Credentials, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, cred.UserID).
		Delete(PT(new(T)))
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", s.resource, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.resource, id)
	}
	return nil
}
