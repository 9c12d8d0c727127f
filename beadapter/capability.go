package beadapter

// Capability is the per (pattern, client) record controlling what a
// subscribed client is told and trusted with: whether it validates
// proposed config, is notified of committed config, and owns operational
// data for the subtree.
type Capability struct {
	ValidateConfig bool
	NotifyConfig   bool
	OwnOperData    bool
}

// Subscribed reports whether any capability bit is set; an all-false
// Capability is equivalent to "not subscribed" and resolve() never returns
// one (absence of a record means not subscribed, per the data model).
func (c Capability) Subscribed() bool {
	return c.ValidateConfig || c.NotifyConfig || c.OwnOperData
}

// or returns the bitwise-OR merge of two capability records, used when the
// same client is reachable via more than one equally-maximal pattern.
func (c Capability) or(other Capability) Capability {
	return Capability{
		ValidateConfig: c.ValidateConfig || other.ValidateConfig,
		NotifyConfig:   c.NotifyConfig || other.NotifyConfig,
		OwnOperData:    c.OwnOperData || other.OwnOperData,
	}
}

// allCapabilities is what the static registry grants to every (pattern,
// client) pair it lists: the original source sets all three bits uniformly
// at init even though the record supports setting them independently.
var allCapabilities = Capability{ValidateConfig: true, NotifyConfig: true, OwnOperData: true}

// subscriberSet maps a client id to its capability record for one pattern.
type subscriberSet map[ClientID]Capability
