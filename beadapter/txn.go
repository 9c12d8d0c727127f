package beadapter

// TxnStatus is the signed result of every C7 fan-out call: zero on
// success, negative when the adapter's connection is already gone and
// should be dropped from the transaction's participant list.
type TxnStatus int

const (
	TxnOK               TxnStatus = 0
	TxnConnectionClosed TxnStatus = -1
)

// CreateTxn asks adapter to begin participating in txnID.
func CreateTxn(adapter *Adapter, txnID uint64) TxnStatus {
	if err := adapter.SendTxnReq(txnID, true); err != nil {
		logTxnInfo(txnID, "create_txn to %s failed: %v", adapter.Name(), err)
		return TxnConnectionClosed
	}
	return TxnOK
}

// DestroyTxn asks adapter to tear down its participation in txnID.
func DestroyTxn(adapter *Adapter, txnID uint64) TxnStatus {
	if err := adapter.SendTxnReq(txnID, false); err != nil {
		logTxnInfo(txnID, "destroy_txn to %s failed: %v", adapter.Name(), err)
		return TxnConnectionClosed
	}
	return TxnOK
}

// SendCfgDataCreateReq pushes one batch of a transaction's config-data to
// adapter.
func SendCfgDataCreateReq(adapter *Adapter, txnID, batchID uint64, items []CfgDataItem, endOfData bool) TxnStatus {
	if err := adapter.SendCfgDataCreateReq(txnID, batchID, items, endOfData); err != nil {
		logTxnInfo(txnID, "cfg_data_create_req to %s failed: %v", adapter.Name(), err)
		return TxnConnectionClosed
	}
	return TxnOK
}

// SendCfgApplyReq requests adapter apply a transaction's staged
// config-data.
func SendCfgApplyReq(adapter *Adapter, txnID uint64) TxnStatus {
	if err := adapter.SendCfgApplyReq(txnID); err != nil {
		logTxnInfo(txnID, "cfg_apply_req to %s failed: %v", adapter.Name(), err)
		return TxnConnectionClosed
	}
	return TxnOK
}
