package beadapter

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	b, err := EncodeMessage(msg)
	assert.Equal(t, nil, err)

	decoded, err := DecodeMessage(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, msg.Kind(), decoded.Kind())
	return decoded
}

func TestCodecRoundTripSubscrReq(t *testing.T) {
	msg := SubscrReq{ClientName: "staticd", SubscribeXpaths: true, XpathReg: []string{"/a/*", "/b/*"}}
	decoded := roundTrip(t, msg).(SubscrReq)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripSubscrReqEmptyXpathReg(t *testing.T) {
	msg := SubscrReq{ClientName: "bgpd", SubscribeXpaths: false}
	decoded := roundTrip(t, msg).(SubscrReq)
	assert.Equal(t, msg.ClientName, decoded.ClientName)
	assert.Equal(t, msg.SubscribeXpaths, decoded.SubscribeXpaths)
	assert.Equal(t, 0, len(decoded.XpathReg))
}

func TestCodecRoundTripSubscrReply(t *testing.T) {
	msg := SubscrReply{Success: true}
	decoded := roundTrip(t, msg).(SubscrReply)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripTxnReq(t *testing.T) {
	msg := TxnReq{TxnID: 42, Create: true}
	decoded := roundTrip(t, msg).(TxnReq)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripTxnReply(t *testing.T) {
	msg := TxnReply{TxnID: 42, Create: false, Success: true}
	decoded := roundTrip(t, msg).(TxnReply)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripCfgDataReq(t *testing.T) {
	msg := CfgDataReq{
		TxnID:   7,
		BatchID: 1,
		DataItems: []CfgDataItem{
			{Xpath: "/a/b", Value: []byte{1, 2, 3}},
			{Xpath: "/a/c", Value: nil},
		},
		EndOfData: true,
	}
	decoded := roundTrip(t, msg).(CfgDataReq)
	assert.Equal(t, msg.TxnID, decoded.TxnID)
	assert.Equal(t, msg.BatchID, decoded.BatchID)
	assert.Equal(t, msg.EndOfData, decoded.EndOfData)
	assert.Equal(t, len(msg.DataItems), len(decoded.DataItems))
	assert.Equal(t, msg.DataItems[0].Xpath, decoded.DataItems[0].Xpath)
	assert.Equal(t, msg.DataItems[0].Value, decoded.DataItems[0].Value)
}

func TestCodecRoundTripCfgDataReply(t *testing.T) {
	msg := CfgDataReply{TxnID: 7, BatchID: 1, Success: false, ErrorIfAny: "bad value"}
	decoded := roundTrip(t, msg).(CfgDataReply)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripCfgApplyReq(t *testing.T) {
	msg := CfgApplyReq{TxnID: 99}
	decoded := roundTrip(t, msg).(CfgApplyReq)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripCfgApplyReply(t *testing.T) {
	msg := CfgApplyReply{TxnID: 99, Success: true, BatchIDs: []uint64{1, 2, 3}, ErrorIfAny: ""}
	decoded := roundTrip(t, msg).(CfgApplyReply)
	assert.Equal(t, msg, decoded)
}

func TestCodecRoundTripGetReqReply(t *testing.T) {
	req := GetReq{Xpath: "/a/b"}
	decodedReq := roundTrip(t, req).(GetReq)
	assert.Equal(t, req, decodedReq)

	reply := GetReply{Xpath: "/a/b", Value: []byte("v")}
	decodedReply := roundTrip(t, reply).(GetReply)
	assert.Equal(t, reply, decodedReply)
}

func TestCodecRoundTripCfgCmd(t *testing.T) {
	req := CfgCmdReq{Command: "show running-config"}
	decodedReq := roundTrip(t, req).(CfgCmdReq)
	assert.Equal(t, req, decodedReq)

	reply := CfgCmdReply{Success: true, Output: "ok"}
	decodedReply := roundTrip(t, reply).(CfgCmdReply)
	assert.Equal(t, reply, decodedReply)
}

func TestCodecRoundTripShowCmd(t *testing.T) {
	req := ShowCmdReq{Command: "show version"}
	decodedReq := roundTrip(t, req).(ShowCmdReq)
	assert.Equal(t, req, decodedReq)

	reply := ShowCmdReply{Output: "1.0"}
	decodedReply := roundTrip(t, reply).(ShowCmdReply)
	assert.Equal(t, reply, decodedReply)
}

func TestCodecRoundTripNotifyData(t *testing.T) {
	msg := NotifyData{Xpath: "/a/b", Value: []byte{9, 9}}
	decoded := roundTrip(t, msg).(NotifyData)
	assert.Equal(t, msg, decoded)
}

func TestDecodeMessageTruncated(t *testing.T) {
	_, err := DecodeMessage([]byte{0})
	assert.NotEqual(t, nil, err)

	b, err := EncodeMessage(TxnReq{TxnID: 1, Create: true})
	assert.Equal(t, nil, err)
	_, err = DecodeMessage(b[:len(b)-1])
	assert.NotEqual(t, nil, err)
}

func TestDecodeMessageUnknownKind(t *testing.T) {
	_, err := DecodeMessage([]byte{0xff, 0xff})
	assert.NotEqual(t, nil, err)
}

type unrecognizedMessage struct{}

func (unrecognizedMessage) Kind() MessageKind { return maxMessageKind }

func TestEncodeMessageUnknownType(t *testing.T) {
	_, err := EncodeMessage(unrecognizedMessage{})
	assert.NotEqual(t, nil, err)
}
