package beadapter

// Registry is the process-wide collection of live adapters plus a direct
// by-id index. It runs on the same single-threaded event loop as every
// adapter, so unlike the mutex-guarded registries connect's
// ip_remote_multi_client.go keeps (stateLock sync.Mutex around a map),
// this one needs no lock: the concurrency model guarantees no two
// handlers ever touch it at once.
type Registry struct {
	adapters []*Adapter
	byID     [MAX]*Adapter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Insert adds a newly created adapter to the live set. The registry
// reference is the "+1 for registry membership" counted in the adapter's
// refcount invariant.
func (r *Registry) Insert(a *Adapter) {
	r.adapters = append(r.adapters, a)
	a.addRef()
}

// Remove unlinks a from the live set and the by-id index, if present, and
// drops the registry's reference. Safe to call at most once per adapter;
// disconnect() is the only caller.
func (r *Registry) Remove(a *Adapter) {
	for i, existing := range r.adapters {
		if existing == a {
			r.adapters = append(r.adapters[:i], r.adapters[i+1:]...)
			break
		}
	}
	if a.id.Valid() && r.byID[a.id] == a {
		r.byID[a.id] = nil
	}
	a.release()
}

// ByFD linearly scans for the adapter owning fd, or nil.
func (r *Registry) ByFD(fd int) *Adapter {
	for _, a := range r.adapters {
		if a.fd == fd {
			return a
		}
	}
	return nil
}

// ByName linearly scans for the adapter with the given name, or nil.
func (r *Registry) ByName(name string) *Adapter {
	for _, a := range r.adapters {
		if a.name == name {
			return a
		}
	}
	return nil
}

// OthersNamed returns every live adapter other than except sharing name,
// used to sweep stale connections on reconnect.
func (r *Registry) OthersNamed(name string, except *Adapter) []*Adapter {
	var out []*Adapter
	for _, a := range r.adapters {
		if a != except && a.name == name {
			out = append(out, a)
		}
	}
	return out
}

// ByID returns the adapter currently indexed for id, or nil.
func (r *Registry) ByID(id ClientID) *Adapter {
	if !id.Valid() {
		return nil
	}
	return r.byID[id]
}

// SetByID installs a at id, returning whatever adapter was previously
// indexed there (nil if none). The caller is responsible for disconnecting
// the displaced adapter, per the "reconnect displaces" invariant -- the
// by-id table itself never holds a stale pointer across this call.
func (r *Registry) SetByID(id ClientID, a *Adapter) (prior *Adapter) {
	prior = r.byID[id]
	r.byID[id] = a
	return prior
}

// Snapshot returns the live adapters in registration order, for the
// operator status dump. The caller must not mutate the returned slice.
func (r *Registry) Snapshot() []*Adapter {
	out := make([]*Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}
