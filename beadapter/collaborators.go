package beadapter

// DS and TXN are the two external collaborators this package never
// implements, only calls into: the datastore and the transaction manager.
// Both are modeled as narrow interfaces in the style of transfer.go's
// Transport/MultiRouteWriter/MultiRouteReader -- small enough that a test
// double can satisfy them without a mocking framework.

// DSNode is one node yielded while walking a datastore subtree: its
// instance path, its serialized value, and an opaque schema handle the
// datastore attaches for callers that need it (this core never inspects
// Schema itself, it only forwards the path and value downstream).
type DSNode struct {
	Xpath  string
	Value  []byte
	Schema any
}

// DS is the datastore's tree-diff iterator.
type DS interface {
	// Walk visits every node in the subtree rooted at root (typically
	// "/" for a full sync), calling visit once per node in a stable,
	// deterministic order.
	Walk(root string, visit func(DSNode)) error
}

// TXN is the transaction manager: it owns transaction identifiers and
// correlates replies arriving from potentially many adapters.
type TXN interface {
	// ConfigTxnInProgress reports whether a configuration transaction is
	// active anywhere in the system. CONN_INIT polls this to decide
	// whether to proceed or reschedule.
	ConfigTxnInProgress() bool

	// Connect notifies TXN that an adapter has identified itself and is
	// ready to participate in transactions. A non-nil error means the
	// adapter must be disconnected.
	Connect(adapter *Adapter) error

	// Disconnect notifies TXN that an adapter is going away, so any
	// in-flight transaction can drop it as a participant. Called at most
	// once per adapter.
	Disconnect(adapter *Adapter)

	// OnTxnReply forwards a decoded TXN_REPLY.
	OnTxnReply(adapter *Adapter, txnID uint64, create bool, success bool)

	// OnCfgDataReply forwards a decoded CFG_DATA_REPLY.
	OnCfgDataReply(adapter *Adapter, txnID uint64, batchID uint64, success bool, errorIfAny string)

	// OnCfgApplyReply forwards a decoded CFG_APPLY_REPLY.
	OnCfgApplyReply(adapter *Adapter, txnID uint64, success bool, batchIDs []uint64, errorIfAny string)
}
