package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"mealplanner/config"
	"mealplanner/models"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

var testCred = utils.Credentials{UserID: 7, Email: "coach@example.com", Token: "tok"}

// fastRetry never sleeps.
func fastRetry(attempts int) utils.RetryConfig {
	return utils.RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

func testEdamam(baseURL string, cache Cache) *EdamamService {
	cfg := config.EdamamConfig{
		BaseURL:      baseURL,
		FoodAppID:    "food-id",
		FoodAppKey:   "food-key",
		NutriAppID:   "nutri-id",
		NutriAppKey:  "nutri-key",
		RecipeAppID:  "recipe-id",
		RecipeAppKey: "recipe-key",
	}
	return NewEdamamService(cfg, fastRetry(3), cache, time.Hour)
}

// memStore is an in-memory Store for service tests.
type memStore[T models.Entity, PT models.Record[T]] struct {
	mu      sync.Mutex
	next    uint
	items   map[uint]T
	deletes int
}

func newMemStore[T models.Entity, PT models.Record[T]](seed ...T) *memStore[T, PT] {
	s := &memStore[T, PT]{items: make(map[uint]T)}
	for _, it := range seed {
		s.items[it.GetID()] = it
		if it.GetID() > s.next {
			s.next = it.GetID()
		}
	}
	return s
}

func (s *memStore[T, PT]) List(_ context.Context, _ utils.Credentials) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out, nil
}

func (s *memStore[T, PT]) Get(_ context.Context, _ utils.Credentials, id uint) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return it, apperr.NotFound("mem", id)
	}
	return it, nil
}

func (s *memStore[T, PT]) Save(_ context.Context, cred utils.Credentials, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := PT(&item)
	p.SetOwner(cred.UserID)
	if item.GetID() == 0 {
		s.next++
		p.SetID(s.next)
	} else if _, ok := s.items[item.GetID()]; !ok {
		return item, apperr.NotFound("mem", item.GetID())
	}
	s.items[item.GetID()] = item
	return item, nil
}

func (s *memStore[T, PT]) Delete(_ context.Context, _ utils.Credentials, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("mem", id)
	}
	delete(s.items, id)
	s.deletes++
	return nil
}
