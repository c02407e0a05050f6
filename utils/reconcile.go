package utils

import "mealplanner/models"

// ActionKind names the mutation carried by an Action.
type ActionKind string

const (
	ActionUpsert ActionKind = "upsert"
	ActionDelete ActionKind = "delete"
)

// Action is a single mutation against a collection of entities.
type Action[T models.Entity] struct {
	Kind ActionKind `json:"kind"`
	Item T          `json:"item"`
}

// Reconcile applies action to items and returns a new collection; items is
// never modified. A nil items slice stands for a collection that has not been
// loaded yet. Unknown kinds return a copy of items.
func Reconcile[T models.Entity](items []T, action Action[T]) []T {
	if items == nil {
		switch action.Kind {
		case ActionUpsert:
			return []T{action.Item}
		case ActionDelete:
			return []T{}
		}
		return nil
	}

	id := action.Item.GetID()
	switch action.Kind {
	case ActionUpsert:
		out := make([]T, 0, len(items)+1)
		replaced := false
		for _, it := range items {
			if it.GetID() == id {
				if !replaced {
					out = append(out, action.Item)
					replaced = true
				}
				continue
			}
			out = append(out, it)
		}
		if !replaced {
			out = append(out, action.Item)
		}
		return out

	case ActionDelete:
		out := make([]T, 0, len(items))
		for _, it := range items {
			if it.GetID() != id {
				out = append(out, it)
			}
		}
		return out
	}

	out := make([]T, len(items))
	copy(out, items)
	return out
}
