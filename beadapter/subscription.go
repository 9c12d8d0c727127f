package beadapter

import (
	"fmt"

	"golang.org/x/exp/maps"
)

// patternEntry is one registered (pattern, subscribers) pair: the static
// registry's per-pattern row (mgmt_xpath_map[indx] in the original source).
type patternEntry struct {
	pattern     compiledPattern
	subscribers subscriberSet
}

// SubscriptionMap is a static, process-wide registry built once from the
// seed table and never mutated again: initialized at startup, read-only
// thereafter.
type SubscriptionMap struct {
	entries []patternEntry
	maxLen  int
}

// RegisteredClient names one backend client interested in a pattern; it is
// the shape the static seed table is built from (mgmt_be_xpath_map_reg's
// be_clients list in the original source).
type RegisteredClient struct {
	Pattern string
	Clients []ClientID
}

// StaticdSeed reproduces the static subscription registry's seed content
// verbatim: the three patterns bound to the static-route daemon. Kept as a
// named var (not just inlined into NewSubscriptionMap) so a caller can
// extend it before constructing the map; nothing rediscovers patterns
// dynamically at runtime, but nothing forbids composing the seed list at
// startup.
var StaticdSeed = []RegisteredClient{
	{
		Pattern: "/frr-vrf:lib/*",
		Clients: []ClientID{ClientStaticd},
	},
	{
		Pattern: "/frr-interface:lib/*",
		Clients: []ClientID{ClientStaticd},
	},
	{
		Pattern: "/frr-routing:routing/control-plane-protocols/control-plane-protocol[type='frr-staticd:staticd'][name='staticd'][vrf='default']/frr-staticd:staticd/*",
		Clients: []ClientID{ClientStaticd},
	},
}

// NewSubscriptionMap builds the subscription map from a seed list, bounded
// by maxPatterns (MGMTD_BE_MAX_NUM_XPATH_MAP in the original source). Every
// (pattern, client) pair in the seed is granted allCapabilities.
func NewSubscriptionMap(seed []RegisteredClient, maxPatterns int) (*SubscriptionMap, error) {
	if len(seed) > maxPatterns {
		return nil, fmt.Errorf("beadapter: %d registered patterns exceeds the configured maximum of %d", len(seed), maxPatterns)
	}

	entries := make([]patternEntry, 0, len(seed))
	for _, reg := range seed {
		subs := make(subscriberSet, len(reg.Clients))
		for _, id := range reg.Clients {
			if !id.Valid() {
				return nil, fmt.Errorf("beadapter: pattern %q registers unknown client id %d", reg.Pattern, id)
			}
			subs[id] = subs[id].or(allCapabilities)
		}
		entries = append(entries, patternEntry{
			pattern:     compilePattern(reg.Pattern),
			subscribers: subs,
		})
	}

	return &SubscriptionMap{entries: entries, maxLen: maxPatterns}, nil
}

// Resolve computes the union of subscribers for every pattern achieving
// the maximum positive match length against xpath (or every pattern, if
// xpath is root-scope), OR-merging capability records when a client
// appears via more than one equally-maximal pattern. It returns an empty,
// non-nil map if nothing matches.
func (m *SubscriptionMap) Resolve(xpath string) subscriberSet {
	root := isRootScope(xpath)

	result := subscriberSet{}
	maxLen := 0

	for _, entry := range m.entries {
		matchLen := 1
		if !root {
			matchLen = entry.pattern.matchLen(xpath)
			if matchLen == 0 || matchLen < maxLen {
				continue
			}
			if matchLen > maxLen {
				maxLen = matchLen
				result = subscriberSet{}
			}
		}
		for id, c := range entry.subscribers {
			result[id] = result[id].or(c)
		}
	}

	return result
}

// Patterns returns the registered pattern strings in registration order,
// for the operator xpath_register dump (status.go).
func (m *SubscriptionMap) Patterns() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.pattern.raw
	}
	return out
}

// SubscribersOf returns a defensive copy of a registered pattern's
// subscriber set by its index in Patterns()'s order.
func (m *SubscriptionMap) SubscribersOf(index int) map[ClientID]Capability {
	if index < 0 || index >= len(m.entries) {
		return nil
	}
	out := make(map[ClientID]Capability, len(m.entries[index].subscribers))
	for id, c := range m.entries[index].subscribers {
		out[id] = c
	}
	return out
}

// Len reports how many patterns are registered.
func (m *SubscriptionMap) Len() int {
	return len(m.entries)
}

// sortedClientIDs is a small helper used by status.go/tests to iterate a
// subscriberSet (or any map[ClientID]...) in deterministic order.
func sortedClientIDs[V any](m map[ClientID]V) []ClientID {
	ids := maps.Keys(m)
	// insertion sort is plenty for MAX-sized (single digit) key sets
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
