package beadapter

import "github.com/golang/glog"

// Logging follows the bracketed-tag convention used throughout the
// connect package (e.g. transfer_control.go's "[control][%d]..."):
// every adapter-scoped line is tagged with the adapter's name or fd so a
// grep over a day's log isolates one connection's history.

func logAdapterInfo(name string, format string, args ...any) {
	glog.Infof("[adapter][%s] "+format, append([]any{name}, args...)...)
}

func logAdapterError(name string, format string, args ...any) {
	glog.Errorf("[adapter][%s] "+format, append([]any{name}, args...)...)
}

func logAdapterV(level glog.Level, name string, format string, args ...any) {
	if glog.V(level) {
		glog.Infof("[adapter][%s] "+format, append([]any{name}, args...)...)
	}
}

func logTxnInfo(txnID uint64, format string, args ...any) {
	glog.Infof("[txn][%d] "+format, append([]any{txnID}, args...)...)
}

func logSyncInfo(name string, format string, args ...any) {
	glog.Infof("[sync][%s] "+format, append([]any{name}, args...)...)
}
