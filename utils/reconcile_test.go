package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type qtyItem struct {
	ID  uint
	Qty int
}

func (q qtyItem) GetID() uint { return q.ID }

func upsert(it qtyItem) Action[qtyItem] {
	return Action[qtyItem]{Kind: ActionUpsert, Item: it}
}

func del(id uint) Action[qtyItem] {
	return Action[qtyItem]{Kind: ActionDelete, Item: qtyItem{ID: id}}
}

func TestReconcile_UpsertReplacesInPlace(t *testing.T) {
	in := []qtyItem{{ID: 1, Qty: 2}, {ID: 2, Qty: 3}}

	out := Reconcile(in, upsert(qtyItem{ID: 2, Qty: 5}))

	assert.Equal(t, []qtyItem{{ID: 1, Qty: 2}, {ID: 2, Qty: 5}}, out)
	assert.Equal(t, 3, in[1].Qty, "input must not be mutated")
}

func TestReconcile_UpsertNewAppends(t *testing.T) {
	in := []qtyItem{{ID: 3, Qty: 1}, {ID: 1, Qty: 1}}

	out := Reconcile(in, upsert(qtyItem{ID: 7, Qty: 9}))

	assert.Equal(t, []qtyItem{{ID: 3, Qty: 1}, {ID: 1, Qty: 1}, {ID: 7, Qty: 9}}, out)
	assert.Len(t, in, 2)
}

func TestReconcile_UpsertIsIdempotent(t *testing.T) {
	in := []qtyItem{{ID: 1, Qty: 2}, {ID: 2, Qty: 3}}
	a := upsert(qtyItem{ID: 4, Qty: 8})

	once := Reconcile(in, a)
	twice := Reconcile(once, a)

	assert.Equal(t, once, twice)
}

func TestReconcile_DeleteRemovesMatch(t *testing.T) {
	in := []qtyItem{{ID: 1}, {ID: 2}, {ID: 3}}

	assert.Equal(t, []qtyItem{{ID: 1}, {ID: 3}}, Reconcile(in, del(2)))
}

func TestReconcile_DeleteMissingIsNoop(t *testing.T) {
	in := []qtyItem{{ID: 1, Qty: 2}, {ID: 2, Qty: 3}}

	out := Reconcile(in, del(99))

	assert.Equal(t, in, out)
}

func TestReconcile_AbsentCollection(t *testing.T) {
	assert.Equal(t, []qtyItem{{ID: 5, Qty: 1}}, Reconcile(nil, upsert(qtyItem{ID: 5, Qty: 1})))

	out := Reconcile(nil, del(5))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestReconcile_UnknownKindReturnsInput(t *testing.T) {
	in := []qtyItem{{ID: 1, Qty: 2}}

	out := Reconcile(in, Action[qtyItem]{Kind: "archive", Item: qtyItem{ID: 1}})

	assert.Equal(t, in, out)
	out[0].Qty = 100
	assert.Equal(t, 2, in[0].Qty, "result must not alias the input")
}

func TestReconcile_CollapsesDuplicateIDs(t *testing.T) {
	in := []qtyItem{{ID: 1, Qty: 1}, {ID: 2}, {ID: 1, Qty: 4}}

	out := Reconcile(in, upsert(qtyItem{ID: 1, Qty: 9}))

	assert.Equal(t, []qtyItem{{ID: 1, Qty: 9}, {ID: 2}}, out)
}
