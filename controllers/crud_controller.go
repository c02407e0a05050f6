package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/models"
	"mealplanner/utils"
)

// Resource is the service surface CrudController drives.
type Resource[T models.Entity] interface {
	List(ctx context.Context, cred utils.Credentials) ([]T, error)
	Get(ctx context.Context, cred utils.Credentials, id uint) (T, error)
	Save(ctx context.Context, cred utils.Credentials, item T) (T, error)
	Delete(ctx context.Context, cred utils.Credentials, id uint) error
	Apply(ctx context.Context, cred utils.Credentials, current []T, action utils.Action[T]) ([]T, error)
}

// CrudController serves list/get/create/update/delete and sync for one
// resource.
type CrudController[T models.Entity, PT models.Record[T]] struct {
	Svc Resource[T]
}

func NewCrudController[T models.Entity, PT models.Record[T]](svc Resource[T]) *CrudController[T, PT] {
	return &CrudController[T, PT]{Svc: svc}
}

// SyncRequest carries the client's copy of the collection and one change.
// A missing items field means the client holds no collection yet.
type SyncRequest[T models.Entity] struct {
	Items  []T             `json:"items"`
	Action utils.Action[T] `json:"action"`
}

func (cc *CrudController[T, PT]) List(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	items, err := cc.Svc.List(c.Request.Context(), cred)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (cc *CrudController[T, PT]) Get(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := cc.Svc.Get(c.Request.Context(), cred, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (cc *CrudController[T, PT]) Create(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	var item T
	if err := c.ShouldBindJSON(PT(&item)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	PT(&item).SetID(0)
	saved, err := cc.Svc.Save(c.Request.Context(), cred, item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (cc *CrudController[T, PT]) Update(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var item T
	if err := c.ShouldBindJSON(PT(&item)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	PT(&item).SetID(id)
	saved, err := cc.Svc.Save(c.Request.Context(), cred, item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (cc *CrudController[T, PT]) Delete(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := cc.Svc.Delete(c.Request.Context(), cred, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sync persists one change and returns the reconciled collection.
func (cc *CrudController[T, PT]) Sync(c *gin.Context) {
	cred, ok := credentials(c)
	if !ok {
		return
	}
	var req SyncRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	items, err := cc.Svc.Apply(c.Request.Context(), cred, req.Items, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
