package beadapter

import "time"

// Config holds every tunable constant the core consults, in the style of
// transfer_contract_manager.go's *Settings structs: a plain value type
// built by a Default constructor, threaded in explicitly rather than
// consulted as package-level globals.
type Config struct {
	// Per-adapter socket buffer sizes (SO_SNDBUF / SO_RCVBUF), set at
	// create().
	SendBufferBytes int
	RecvBufferBytes int

	// Outbound queue high-water mark; crossing it makes the framer's
	// write() return writes-off.
	OutboundHighWaterBytes int

	// Inbound/outbound per-adapter queue caps, in message count, beyond
	// which the connection is treated as misbehaving.
	InboundQueueCap  int
	OutboundQueueCap int

	// Largest single encoded message payload: Framer.Read disconnects on
	// a longer inbound frame, and Adapter.send refuses to enqueue a longer
	// outbound one.
	MaxMessageBytes int

	// Max frames drained by one process() call before yielding back to
	// the event loop.
	ProcessBatchCap int

	// Max registered subscription patterns.
	MaxSubscriptionPatterns int

	// CONN_INIT reschedule delay while a config transaction is active
	// elsewhere.
	ConnInitRetryDelay time.Duration

	// PROC_MSG reschedule delay when frames remain buffered after a
	// batch.
	ProcMsgRetryDelay time.Duration

	// Delay before clearing WRITES_OFF and re-arming writes.
	WritesOnDelay time.Duration
}

// DefaultConfig returns the constants used when nothing overrides them;
// the buffer and queue sizes mirror the magnitudes the original source
// hardcodes (MGMTD_BE_MAX_NUM_XPATH_MAP, the per-adapter ZAPI-style
// buffer sizes).
func DefaultConfig() *Config {
	return &Config{
		SendBufferBytes:         128 * 1024,
		RecvBufferBytes:         128 * 1024,
		OutboundHighWaterBytes:  8 * 1024 * 1024,
		InboundQueueCap:         4096,
		OutboundQueueCap:        4096,
		MaxMessageBytes:         64 * 1024,
		ProcessBatchCap:         32,
		MaxSubscriptionPatterns: 256,
		ConnInitRetryDelay:      100 * time.Millisecond,
		ProcMsgRetryDelay:       0,
		WritesOnDelay:           50 * time.Millisecond,
	}
}
