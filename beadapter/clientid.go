// Package beadapter implements the backend-adapter core of a network
// routing daemon's central management process: the adapter lifecycle and
// framed-message I/O engine, the XPath to client subscription resolver, and
// the two-phase configuration transaction driver.
package beadapter

import "fmt"

// ClientID is a closed enumeration of known backend clients. MAX is the
// sentinel both for "one past the last known id" and for "unknown /
// unassigned" on an adapter that hasn't identified itself yet.
type ClientID int

const (
	ClientStaticd ClientID = iota
	ClientBgpd
	ClientIsisd
	ClientPathd
	MAX
)

var clientIDNames = [MAX]string{
	ClientStaticd: "staticd",
	ClientBgpd:    "bgpd",
	ClientIsisd:   "isisd",
	ClientPathd:   "pathd",
}

// String renders the human name for a known id, or a diagnostic form for
// MAX / an out-of-range value.
func (id ClientID) String() string {
	if id < 0 || id >= MAX {
		return "none"
	}
	return clientIDNames[id]
}

// Valid reports whether id names a known backend client (i.e. id < MAX).
func (id ClientID) Valid() bool {
	return id >= 0 && id < MAX
}

// ClientIDFromName resolves a backend client's human name to its id. The
// mapping is bijective on known names; an unrecognized name resolves to
// MAX with ok == false, matching mgmt_be_client_name2id's failure mode of
// returning the MAX sentinel in the original source.
func ClientIDFromName(name string) (id ClientID, ok bool) {
	for i, n := range clientIDNames {
		if n == name {
			return ClientID(i), true
		}
	}
	return MAX, false
}

// AllClientIDs returns the known client ids in ascending order, for
// iteration over xpath_subscr-style fixed tables (FOREACH_MGMTD_BE_CLIENT_ID
// in the original source).
func AllClientIDs() []ClientID {
	ids := make([]ClientID, 0, MAX)
	for i := ClientID(0); i < MAX; i++ {
		ids = append(ids, i)
	}
	return ids
}

// clientIDError describes a failure to resolve an adapter's client id
// (still MAX). No function in this package returns it.
type clientIDError struct {
	name string
}

func (e *clientIDError) Error() string {
	return fmt.Sprintf("unable to resolve client id for %q", e.name)
}
