package beadapter

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// adapterFlags is a bit-set; WRITES_OFF is the only bit the core defines
// today, but it is kept as a bit-set (not a lone bool) so a future flag
// does not force a field rename.
type adapterFlags uint32

const flagWritesOff adapterFlags = 1 << iota

type lifecycleState int32

const (
	stateNew lifecycleState = iota
	stateUnidentified
	stateIdentified
	stateSyncing
	stateSteady
	stateDisconnected
)

func (s lifecycleState) String() string {
	switch s {
	case stateNew:
		return "NEW"
	case stateUnidentified:
		return "UNIDENTIFIED"
	case stateIdentified:
		return "IDENTIFIED"
	case stateSyncing:
		return "SYNCING"
	case stateSteady:
		return "STEADY"
	case stateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// AdapterDeps bundles the collaborators an adapter needs for its whole
// life, following the *Settings-struct convention used elsewhere in this
// package -- passed in once at construction instead of threaded through
// every method individually.
type AdapterDeps struct {
	EventLoop EventLoop
	Registry  *Registry
	Txn       TXN
	Subs      *SubscriptionMap
	Config    *Config
}

// Adapter is the per-connection state machine: identity, I/O scheduling,
// reference count, and events, as laid out in the data model this
// package implements.
type Adapter struct {
	fd int
	// connID is a creation-ordered correlation id for log lines and
	// status dumps -- unlike name/id it never changes across a
	// reconnect-and-re-identify cycle, so it is what actually
	// distinguishes two connections that both end up named "staticd" a
	// moment apart.
	connID ulid.ULID
	peer   string
	name   string
	id     ClientID
	state  lifecycleState
	flags  adapterFlags

	refcount int

	conn   Conn
	framer *Framer

	pendingCfgChanges *changeSet

	readArmed       bool
	writeArmed      bool
	procMsgPending  bool
	connInitPending bool
	writesOnPending bool
	connInitTimer   Timer
	procMsgTimer    Timer
	writesOnTimer   Timer

	eventLoop EventLoop
	registry  *Registry
	txn       TXN
	subs      *SubscriptionMap
	cfg       *Config
}

// CreateAdapter establishes an adapter for a freshly accepted connection:
// registers it, arms the initial read, and schedules CONN_INIT.
func CreateAdapter(fd int, peer string, conn Conn, deps AdapterDeps) *Adapter {
	a := &Adapter{
		fd:                fd,
		connID:            ulid.Make(),
		peer:              peer,
		name:              fmt.Sprintf("Unknown-FD-%d", fd),
		id:                MAX,
		state:             stateUnidentified,
		conn:              conn,
		framer:            NewFramer(deps.Config),
		pendingCfgChanges: newChangeSet(),
		eventLoop:         deps.EventLoop,
		registry:          deps.Registry,
		txn:               deps.Txn,
		subs:              deps.Subs,
		cfg:               deps.Config,
	}

	a.applySockOpts()

	deps.Registry.Insert(a)
	a.armRead()
	a.scheduleConnInit(0)
	return a
}

// applySockOpts puts the connection in non-blocking mode and sizes its
// send/receive buffers, if the concrete Conn exposes SockOptsConn. A fake
// Conn that doesn't is left alone -- this is the same best-effort shape
// create() uses for the rest of the fd setup in the original source.
func (a *Adapter) applySockOpts() {
	sc, ok := a.conn.(SockOptsConn)
	if !ok {
		return
	}
	if err := sc.SetNonblock(); err != nil {
		logAdapterError(a.name, "set non-blocking failed: %v", err)
	}
	if err := sc.SetSendBuffer(a.cfg.SendBufferBytes); err != nil {
		logAdapterError(a.name, "set send buffer failed: %v", err)
	}
	if err := sc.SetRecvBuffer(a.cfg.RecvBufferBytes); err != nil {
		logAdapterError(a.name, "set recv buffer failed: %v", err)
	}
}

func (a *Adapter) Name() string          { return a.name }
func (a *Adapter) ConnID() string        { return a.connID.String() }
func (a *Adapter) FD() int               { return a.fd }
func (a *Adapter) Peer() string          { return a.peer }
func (a *Adapter) ID() ClientID          { return a.id }
func (a *Adapter) Refcount() int         { return a.refcount }
func (a *Adapter) State() lifecycleState { return a.state }
func (a *Adapter) WritesOff() bool       { return a.flags&flagWritesOff != 0 }
func (a *Adapter) Framer() *Framer       { return a.framer }

func (a *Adapter) addRef() { a.refcount++ }

func (a *Adapter) release() {
	a.refcount--
	if a.refcount < 0 {
		panic(fmt.Sprintf("beadapter: negative refcount on adapter %s", a.name))
	}
}

// send serializes msg, enqueues it via the framer, and requests a write.
// This is C4's public send(msg) operation; SendTxnReq/SendCfgDataCreateReq/
// SendCfgApplyReq below are its C7-facing specializations.
func (a *Adapter) send(msg Message) error {
	if a.state == stateDisconnected {
		return fmt.Errorf("beadapter: send on disconnected adapter %s", a.name)
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	if len(payload) > a.cfg.MaxMessageBytes {
		return fmt.Errorf("beadapter: encoded %s is %d bytes, exceeds max %d", msg.Kind(), len(payload), a.cfg.MaxMessageBytes)
	}

	if n := a.framer.Enqueue(payload); n < 0 {
		err := fmt.Errorf("beadapter: enqueue on closed or over-cap adapter %s", a.name)
		a.disconnect()
		return err
	}

	a.armWrite()
	return nil
}

// SendTxnReq is the C7 create_txn/destroy_txn outbound builder.
func (a *Adapter) SendTxnReq(txnID uint64, create bool) error {
	return a.send(TxnReq{TxnID: txnID, Create: create})
}

// SendCfgDataCreateReq is the C7 send_cfg_data_create_req outbound builder.
func (a *Adapter) SendCfgDataCreateReq(txnID, batchID uint64, items []CfgDataItem, endOfData bool) error {
	return a.send(CfgDataReq{TxnID: txnID, BatchID: batchID, DataItems: items, EndOfData: endOfData})
}

// SendCfgApplyReq is the C7 send_cfg_apply_req outbound builder.
func (a *Adapter) SendCfgApplyReq(txnID uint64) error {
	return a.send(CfgApplyReq{TxnID: txnID})
}

// MarkSteady transitions SYNCING -> STEADY once the caller (TXN) has
// finished draining the sync diff get_adapter_config produced. The core
// itself does not decide when draining is complete -- it only implements
// the diff computation in sync.go.
func (a *Adapter) MarkSteady() {
	if a.state == stateSyncing {
		a.state = stateSteady
	}
}

// disconnect closes the fd, notifies TXN, unlinks from the registry and
// by-id index, drops the registry's reference, and cancels any pending
// timers. Idempotent.
func (a *Adapter) disconnect() {
	if a.state == stateDisconnected {
		return
	}
	a.state = stateDisconnected

	if a.conn != nil {
		a.conn.Close()
	}
	a.framer.Close()

	if a.readArmed {
		a.readArmed = false
		a.release()
	}
	if a.writeArmed {
		a.writeArmed = false
		a.release()
	}
	if a.procMsgPending {
		a.procMsgPending = false
		if a.procMsgTimer != nil {
			a.procMsgTimer.Cancel()
		}
		a.release()
	}
	if a.connInitPending {
		a.connInitPending = false
		if a.connInitTimer != nil {
			a.connInitTimer.Cancel()
		}
		a.release()
	}
	if a.writesOnPending {
		a.writesOnPending = false
		if a.writesOnTimer != nil {
			a.writesOnTimer.Cancel()
		}
		a.release()
	}

	a.txn.Disconnect(a)
	a.registry.Remove(a)
	a.fd = -1
}

// Disconnect is disconnect's exported form, for callers outside this
// package (e.g. the operator surface forcing a connection closed).
func (a *Adapter) Disconnect() { a.disconnect() }

func (a *Adapter) armRead() {
	if a.readArmed {
		return
	}
	a.readArmed = true
	a.addRef()
	a.eventLoop.ArmRead(a.fd, a.onReadable)
}

func (a *Adapter) onReadable() {
	a.readArmed = false
	a.release()
	if a.state == stateDisconnected {
		return
	}
	a.handleConnRead()
}

func (a *Adapter) handleConnRead() {
	result, err := a.framer.Read(a.conn)
	if err != nil {
		logAdapterError(a.name, "read error: %v", err)
	}
	switch result {
	case ReadDisconnect:
		a.disconnect()
		return
	case ReadNeedProcess:
		a.scheduleProcMsg()
	}
	a.armRead()
}

func (a *Adapter) scheduleProcMsg() {
	if a.procMsgPending {
		return
	}
	a.procMsgPending = true
	a.addRef()
	a.procMsgTimer = a.eventLoop.ScheduleAfter(a.cfg.ProcMsgRetryDelay, func() {
		a.procMsgPending = false
		a.release()
		if a.state == stateDisconnected {
			return
		}
		a.handleProcMsg()
	})
}

func (a *Adapter) handleProcMsg() {
	more, err := a.framer.Process(a.dispatch)
	if err != nil {
		logAdapterError(a.name, "dispatch error: %v", err)
	}
	if more {
		a.scheduleProcMsg()
	}
}

// dispatch decodes one frame payload and routes it by message kind. An
// undecodable payload is logged and dropped, not treated as fatal.
func (a *Adapter) dispatch(payload []byte) error {
	msg, err := DecodeMessage(payload)
	if err != nil {
		logAdapterError(a.name, "undecodable frame (%d bytes): %v", len(payload), err)
		return nil
	}

	switch m := msg.(type) {
	case SubscrReq:
		a.handleSubscrReq(m)
	case TxnReply:
		a.txn.OnTxnReply(a, m.TxnID, m.Create, m.Success)
	case CfgDataReply:
		a.txn.OnCfgDataReply(a, m.TxnID, m.BatchID, m.Success, m.ErrorIfAny)
	case CfgApplyReply:
		a.txn.OnCfgApplyReply(a, m.TxnID, m.Success, m.BatchIDs, m.ErrorIfAny)
	default:
		logAdapterV(2, a.name, "ignoring %s", msg.Kind())
	}
	return nil
}

// handleSubscrReq identifies the connection. The static subscription
// registry is not re-derived from XpathReg/SubscribeXpaths -- it is fixed
// at startup -- so those fields are accepted on the wire but do not change
// resolve() behavior.
func (a *Adapter) handleSubscrReq(m SubscrReq) {
	a.name = m.ClientName

	id, ok := ClientIDFromName(m.ClientName)
	if !ok {
		logAdapterError(a.name, "SUBSCR_REQ names unknown client")
		a.disconnect()
		return
	}
	a.id = id

	if prior := a.registry.SetByID(id, a); prior != nil && prior != a {
		logAdapterInfo(a.name, "displacing prior adapter fd=%d for the same client id", prior.fd)
		prior.disconnect()
	}
	for _, other := range a.registry.OthersNamed(m.ClientName, a) {
		logAdapterInfo(a.name, "disconnecting stale adapter fd=%d sharing this name", other.fd)
		other.disconnect()
	}

	a.state = stateIdentified
	a.scheduleConnInit(0)
}

func (a *Adapter) scheduleConnInit(delay time.Duration) {
	if a.connInitPending {
		return
	}
	a.connInitPending = true
	a.addRef()
	a.connInitTimer = a.eventLoop.ScheduleAfter(delay, func() {
		a.connInitPending = false
		a.release()
		if a.state == stateDisconnected {
			return
		}
		a.handleConnInit()
	})
}

// handleConnInit is CONN_INIT: while unidentified there is nothing to do
// yet (it fires again once SUBSCR_REQ arrives); once identified it waits
// for the system-wide config lock, then hands off to TXN.
func (a *Adapter) handleConnInit() {
	if a.state != stateIdentified {
		return
	}
	if a.txn.ConfigTxnInProgress() {
		a.scheduleConnInit(a.cfg.ConnInitRetryDelay)
		return
	}
	if err := a.txn.Connect(a); err != nil {
		logAdapterError(a.name, "txn connect failed: %v", err)
		a.disconnect()
		return
	}
	a.state = stateSyncing
}

func (a *Adapter) armWrite() {
	if a.WritesOff() {
		return
	}
	if a.writeArmed {
		return
	}
	a.writeArmed = true
	a.addRef()
	a.eventLoop.ArmWrite(a.fd, a.onWritable)
}

func (a *Adapter) onWritable() {
	a.writeArmed = false
	a.release()
	if a.state == stateDisconnected {
		return
	}
	a.handleConnWrite()
}

func (a *Adapter) handleConnWrite() {
	result, err := a.framer.Write(a.conn)
	if err != nil {
		logAdapterError(a.name, "write error: %v", err)
	}
	switch result {
	case WriteMore:
		a.armWrite()
	case WriteWritesOff:
		a.flags |= flagWritesOff
		a.scheduleWritesOn()
	case WriteDisconnect:
		a.disconnect()
	case WriteNone:
	}
}

func (a *Adapter) scheduleWritesOn() {
	if a.writesOnPending {
		return
	}
	a.writesOnPending = true
	a.addRef()
	a.writesOnTimer = a.eventLoop.ScheduleAfter(a.cfg.WritesOnDelay, func() {
		a.writesOnPending = false
		a.release()
		if a.state == stateDisconnected {
			return
		}
		a.handleWritesOn()
	})
}

func (a *Adapter) handleWritesOn() {
	a.flags &^= flagWritesOff
	if a.framer.OutboundPending() {
		a.armWrite()
	}
}
