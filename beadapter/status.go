package beadapter

// This file is the read-only operator surface: a status dump per live
// adapter, a dump of the registered subscription patterns, and a
// path-resolution probe. None of it mutates state; all three are safe to
// call from the same event-loop goroutine as everything else, or to poll
// periodically.

// AdapterStatus is one row of the status dump.
type AdapterStatus struct {
	Name      string
	ConnID    string
	FD        int
	ID        ClientID
	Refcount  int
	State     string
	WritesOff bool
	FramesIn  uint64
	FramesOut uint64
	BytesIn   uint64
	BytesOut  uint64
}

// Status reports every live adapter in registration order.
func Status(registry *Registry) []AdapterStatus {
	snap := registry.Snapshot()
	out := make([]AdapterStatus, len(snap))
	for i, a := range snap {
		out[i] = AdapterStatus{
			Name:      a.Name(),
			ConnID:    a.ConnID(),
			FD:        a.FD(),
			ID:        a.ID(),
			Refcount:  a.Refcount(),
			State:     a.State().String(),
			WritesOff: a.WritesOff(),
			FramesIn:  a.framer.FramesIn,
			FramesOut: a.framer.FramesOut,
			BytesIn:   a.framer.BytesIn,
			BytesOut:  a.framer.BytesOut,
		}
	}
	return out
}

// ClientCapability pairs a client id with its capability record, in the
// deterministic order sortedClientIDs produces.
type ClientCapability struct {
	ClientID   ClientID
	Capability Capability
}

// PatternSubscribers is one row of the xpath_register dump.
type PatternSubscribers struct {
	Pattern     string
	Subscribers []ClientCapability
}

// XpathRegister dumps every registered pattern and its subscriber set.
func XpathRegister(subs *SubscriptionMap) []PatternSubscribers {
	patterns := subs.Patterns()
	out := make([]PatternSubscribers, len(patterns))
	for i, p := range patterns {
		subscribers := subs.SubscribersOf(i)
		ids := sortedClientIDs(subscribers)
		cc := make([]ClientCapability, len(ids))
		for j, id := range ids {
			cc[j] = ClientCapability{ClientID: id, Capability: subscribers[id]}
		}
		out[i] = PatternSubscribers{Pattern: p, Subscribers: cc}
	}
	return out
}

// XpathSubscrInfo resolves xpath against the subscription map and reports
// the winning subscribers, in deterministic client-id order.
func XpathSubscrInfo(subs *SubscriptionMap, xpath string) []ClientCapability {
	resolved := subs.Resolve(xpath)
	ids := sortedClientIDs(resolved)
	out := make([]ClientCapability, len(ids))
	for i, id := range ids {
		out[i] = ClientCapability{ClientID: id, Capability: resolved[id]}
	}
	return out
}
