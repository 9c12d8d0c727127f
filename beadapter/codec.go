package beadapter

import (
	"encoding/binary"
	"fmt"
)

// This file is the typed-message encode/decode boundary for the wire
// protocol: integers are fixed-width, identifiers and paths are
// length-prefixed UTF-8, booleans are a single byte.
//
// There are no generated message types to dispatch on here (see DESIGN.md
// for why protobuf is not wired into this codec), so encoding is a direct,
// hand-rolled binary format. The discriminated-union *shape* -- a
// MessageKind tag followed by kind-specific fields, decoded by a switch
// over every known kind -- mirrors this package's other wire-adjacent
// switch statements.

// EncodeMessage renders msg as a payload: a 2-byte MessageKind tag followed
// by the kind's fields. It does not include the frame's outer length
// prefix -- that is framer.go's job, since the length prefix delimits the
// byte stream, not the message itself.
func EncodeMessage(msg Message) ([]byte, error) {
	var b []byte
	b = appendUint16(b, uint16(msg.Kind()))

	switch m := msg.(type) {
	case SubscrReq:
		b = appendString(b, m.ClientName)
		b = appendBool(b, m.SubscribeXpaths)
		b = appendUint32(b, uint32(len(m.XpathReg)))
		for _, x := range m.XpathReg {
			b = appendString(b, x)
		}
	case SubscrReply:
		b = appendBool(b, m.Success)
	case TxnReq:
		b = appendUint64(b, m.TxnID)
		b = appendBool(b, m.Create)
	case TxnReply:
		b = appendUint64(b, m.TxnID)
		b = appendBool(b, m.Create)
		b = appendBool(b, m.Success)
	case CfgDataReq:
		b = appendUint64(b, m.TxnID)
		b = appendUint64(b, m.BatchID)
		b = appendUint32(b, uint32(len(m.DataItems)))
		for _, item := range m.DataItems {
			b = appendString(b, item.Xpath)
			b = appendBytes(b, item.Value)
		}
		b = appendBool(b, m.EndOfData)
	case CfgDataReply:
		b = appendUint64(b, m.TxnID)
		b = appendUint64(b, m.BatchID)
		b = appendBool(b, m.Success)
		b = appendString(b, m.ErrorIfAny)
	case CfgApplyReq:
		b = appendUint64(b, m.TxnID)
	case CfgApplyReply:
		b = appendUint64(b, m.TxnID)
		b = appendBool(b, m.Success)
		b = appendUint32(b, uint32(len(m.BatchIDs)))
		for _, id := range m.BatchIDs {
			b = appendUint64(b, id)
		}
		b = appendString(b, m.ErrorIfAny)
	case GetReq:
		b = appendString(b, m.Xpath)
	case GetReply:
		b = appendString(b, m.Xpath)
		b = appendBytes(b, m.Value)
	case CfgCmdReq:
		b = appendString(b, m.Command)
	case CfgCmdReply:
		b = appendBool(b, m.Success)
		b = appendString(b, m.Output)
	case ShowCmdReq:
		b = appendString(b, m.Command)
	case ShowCmdReply:
		b = appendString(b, m.Output)
	case NotifyData:
		b = appendString(b, m.Xpath)
		b = appendBytes(b, m.Value)
	default:
		return nil, fmt.Errorf("beadapter: unknown message type %T", msg)
	}

	return b, nil
}

// DecodeMessage parses a payload (as produced by EncodeMessage) back into a
// Message. An undecodable payload is treated as a protocol-level error: the
// caller logs it with the byte length and drops the frame, it does not
// disconnect.
func DecodeMessage(payload []byte) (Message, error) {
	r := &reader{buf: payload}
	kindVal, err := r.uint16()
	if err != nil {
		return nil, fmt.Errorf("beadapter: truncated frame reading message kind: %w", err)
	}
	kind := MessageKind(kindVal)
	if kind >= maxMessageKind {
		return nil, fmt.Errorf("beadapter: unknown message kind %d", kindVal)
	}

	var msg Message
	switch kind {
	case KindSubscrReq:
		m := SubscrReq{}
		if m.ClientName, err = r.string(); err != nil {
			return nil, err
		}
		if m.SubscribeXpaths, err = r.bool(); err != nil {
			return nil, err
		}
		n, err := r.uint32()
		if err != nil {
			return nil, err
		}
		m.XpathReg = make([]string, n)
		for i := range m.XpathReg {
			if m.XpathReg[i], err = r.string(); err != nil {
				return nil, err
			}
		}
		msg = m
	case KindSubscrReply:
		m := SubscrReply{}
		if m.Success, err = r.bool(); err != nil {
			return nil, err
		}
		msg = m
	case KindTxnReq:
		m := TxnReq{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.Create, err = r.bool(); err != nil {
			return nil, err
		}
		msg = m
	case KindTxnReply:
		m := TxnReply{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.Create, err = r.bool(); err != nil {
			return nil, err
		}
		if m.Success, err = r.bool(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgDataReq:
		m := CfgDataReq{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.BatchID, err = r.uint64(); err != nil {
			return nil, err
		}
		n, err := r.uint32()
		if err != nil {
			return nil, err
		}
		m.DataItems = make([]CfgDataItem, n)
		for i := range m.DataItems {
			if m.DataItems[i].Xpath, err = r.string(); err != nil {
				return nil, err
			}
			if m.DataItems[i].Value, err = r.bytes(); err != nil {
				return nil, err
			}
		}
		if m.EndOfData, err = r.bool(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgDataReply:
		m := CfgDataReply{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.BatchID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.Success, err = r.bool(); err != nil {
			return nil, err
		}
		if m.ErrorIfAny, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgApplyReq:
		m := CfgApplyReq{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgApplyReply:
		m := CfgApplyReply{}
		if m.TxnID, err = r.uint64(); err != nil {
			return nil, err
		}
		if m.Success, err = r.bool(); err != nil {
			return nil, err
		}
		n, err := r.uint32()
		if err != nil {
			return nil, err
		}
		m.BatchIDs = make([]uint64, n)
		for i := range m.BatchIDs {
			if m.BatchIDs[i], err = r.uint64(); err != nil {
				return nil, err
			}
		}
		if m.ErrorIfAny, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindGetReq:
		m := GetReq{}
		if m.Xpath, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindGetReply:
		m := GetReply{}
		if m.Xpath, err = r.string(); err != nil {
			return nil, err
		}
		if m.Value, err = r.bytes(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgCmdReq:
		m := CfgCmdReq{}
		if m.Command, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindCfgCmdReply:
		m := CfgCmdReply{}
		if m.Success, err = r.bool(); err != nil {
			return nil, err
		}
		if m.Output, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindShowCmdReq:
		m := ShowCmdReq{}
		if m.Command, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindShowCmdReply:
		m := ShowCmdReply{}
		if m.Output, err = r.string(); err != nil {
			return nil, err
		}
		msg = m
	case KindNotifyData:
		m := NotifyData{}
		if m.Xpath, err = r.string(); err != nil {
			return nil, err
		}
		if m.Value, err = r.bytes(); err != nil {
			return nil, err
		}
		msg = m
	}

	return msg, nil
}

func appendUint16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendUint64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendBytes(b []byte, v []byte) []byte {
	b = appendUint32(b, uint32(len(v)))
	return append(b, v...)
}

func appendString(b []byte, v string) []byte {
	return appendBytes(b, []byte(v))
}

// reader walks a decode buffer sequentially; every method reports a
// truncation error instead of panicking, since the bytes ultimately come
// from the network.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) need(n int) error {
	if len(r.buf)-r.pos < n {
		return fmt.Errorf("beadapter: truncated frame: need %d bytes, have %d", n, len(r.buf)-r.pos)
	}
	return nil
}

func (r *reader) uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) bool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.buf[r.pos] != 0
	r.pos++
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return v, nil
}

func (r *reader) string() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
