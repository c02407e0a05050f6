package services

import (
	"context"

	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

type validator interface {
	Validate() error
}

// CrudService validates writes, persists them through a Store and announces
// every change to the user's realtime sessions.
type CrudService[T models.Entity] struct {
	resource string
	store    Store[T]
	hub      *RealtimeHub
}

func NewCrudService[T models.Entity](resource string, store Store[T], hub *RealtimeHub) *CrudService[T] {
	return &CrudService[T]{resource: resource, store: store, hub: hub}
}

func (s *CrudService[T]) Resource() string { return s.resource }

func (s *CrudService[T]) List(ctx context.Context, cred utils.Credentials) ([]T, error) {
	return s.store.List(ctx, cred)
}

func (s *CrudService[T]) Get(ctx context.Context, cred utils.Credentials, id uint) (T, error) {
	return s.store.Get(ctx, cred, id)
}

func (s *CrudService[T]) Save(ctx context.Context, cred utils.Credentials, item T) (T, error) {
	if v, ok := any(&item).(validator); ok {
		if err := v.Validate(); err != nil {
			return item, err
		}
	}
	saved, err := s.store.Save(ctx, cred, item)
	if err != nil {
		return saved, err
	}
	s.hub.Publish(cred.UserID, ChangeEvent{Resource: s.resource, Kind: string(utils.ActionUpsert), Item: saved})
	return saved, nil
}

// Delete removes the record and announces the last stored version of it.
func (s *CrudService[T]) Delete(ctx context.Context, cred utils.Credentials, id uint) error {
	item, err := s.store.Get(ctx, cred, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, cred, id); err != nil {
		return err
	}
	s.hub.Publish(cred.UserID, ChangeEvent{Resource: s.resource, Kind: string(utils.ActionDelete), Item: item})
	return nil
}

// Apply persists action and folds the stored result into current, the
// caller's copy of the collection. Deleting a record that is already gone
// succeeds so that replays converge.
func (s *CrudService[T]) Apply(ctx context.Context, cred utils.Credentials, current []T, action utils.Action[T]) ([]T, error) {
	switch action.Kind {
	case utils.ActionUpsert:
		saved, err := s.Save(ctx, cred, action.Item)
		if err != nil {
			return nil, err
		}
		return utils.Reconcile(current, utils.Action[T]{Kind: utils.ActionUpsert, Item: saved}), nil
	case utils.ActionDelete:
		id := action.Item.GetID()
		if id == 0 {
			return nil, apperr.Validation(s.resource, "delete needs an id")
		}
		if err := s.Delete(ctx, cred, id); err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return utils.Reconcile(current, action), nil
	default:
		return nil, apperr.Validation(s.resource, "unknown action kind %q", action.Kind)
	}
}
