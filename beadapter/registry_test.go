package beadapter

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func newTestAdapterNoSideEffects(t *testing.T, fd int) *Adapter {
	t.Helper()
	el := newFakeEventLoop()
	reg := NewRegistry()
	txn := &fakeTxn{}
	subs, err := NewSubscriptionMap(StaticdSeed, 128)
	assert.Equal(t, nil, err)
	conn := &fakeConn{}
	deps := AdapterDeps{EventLoop: el, Registry: reg, Txn: txn, Subs: subs, Config: DefaultConfig()}
	return CreateAdapter(fd, "peer", conn, deps)
}

func TestRegistryInsertAndByFD(t *testing.T) {
	r := NewRegistry()
	a := newTestAdapterNoSideEffects(t, 7)
	before := a.Refcount()
	r.Insert(a)
	assert.Equal(t, before+1, a.Refcount())
	assert.Equal(t, a, r.ByFD(7))
	assert.Equal(t, (*Adapter)(nil), r.ByFD(99))
}

func TestRegistryByNameAndOthersNamed(t *testing.T) {
	r := NewRegistry()
	a1 := newTestAdapterNoSideEffects(t, 7)
	a1.name = "staticd"
	a2 := newTestAdapterNoSideEffects(t, 9)
	a2.name = "staticd"
	a3 := newTestAdapterNoSideEffects(t, 11)
	a3.name = "bgpd"
	r.Insert(a1)
	r.Insert(a2)
	r.Insert(a3)

	assert.Equal(t, a1, r.ByName("staticd"))

	others := r.OthersNamed("staticd", a1)
	assert.Equal(t, 1, len(others))
	assert.Equal(t, a2, others[0])
}

func TestRegistrySetByIDDisplacesAndByIDLookup(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, (*Adapter)(nil), r.ByID(ClientStaticd))

	a1 := newTestAdapterNoSideEffects(t, 7)
	prior := r.SetByID(ClientStaticd, a1)
	assert.Equal(t, (*Adapter)(nil), prior)
	assert.Equal(t, a1, r.ByID(ClientStaticd))

	a2 := newTestAdapterNoSideEffects(t, 9)
	prior = r.SetByID(ClientStaticd, a2)
	assert.Equal(t, a1, prior)
	assert.Equal(t, a2, r.ByID(ClientStaticd))
}

func TestRegistryByIDRejectsInvalidID(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, (*Adapter)(nil), r.ByID(MAX))
}

func TestRegistryRemoveUnlinksAndReleases(t *testing.T) {
	r := NewRegistry()
	a := newTestAdapterNoSideEffects(t, 7)
	a.id = ClientStaticd
	r.Insert(a)
	r.SetByID(ClientStaticd, a)
	before := a.Refcount()

	r.Remove(a)
	assert.Equal(t, before-1, a.Refcount())
	assert.Equal(t, (*Adapter)(nil), r.ByFD(7))
	assert.Equal(t, (*Adapter)(nil), r.ByID(ClientStaticd))
}

func TestRegistryRemoveLeavesByIDAloneIfAlreadyDisplaced(t *testing.T) {
	r := NewRegistry()
	a1 := newTestAdapterNoSideEffects(t, 7)
	a1.id = ClientStaticd
	r.Insert(a1)
	r.SetByID(ClientStaticd, a1)

	a2 := newTestAdapterNoSideEffects(t, 9)
	a2.id = ClientStaticd
	r.Insert(a2)
	r.SetByID(ClientStaticd, a2)

	r.Remove(a1)
	assert.Equal(t, a2, r.ByID(ClientStaticd))
}

func TestRegistrySnapshotIsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	a1 := newTestAdapterNoSideEffects(t, 7)
	a2 := newTestAdapterNoSideEffects(t, 9)
	r.Insert(a1)
	r.Insert(a2)

	snap := r.Snapshot()
	assert.Equal(t, 2, len(snap))
	assert.Equal(t, a1, snap[0])
	assert.Equal(t, a2, snap[1])
}
