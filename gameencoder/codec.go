package gameencoder

import (
	"encoding/json"
	"errors"

	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmptyPayload is returned when decoding zero bytes.
var ErrEmptyPayload = errors.New("empty payload")

var (
	_ service.Encoder = (*JSON)(nil)
	_ service.Encoder = (*Msgpack)(nil)
)

// JSON encodes messages as JSON text, for browser clients.
type JSON struct{}

func (*JSON) MarshalSnapshot(s service.Snapshot) ([]byte, error) {
	return json.Marshal(FromSnapshot(s))
}

func (*JSON) UnmarshalAction(b []byte) (service.Action, error) {
	if len(b) == 0 {
		return service.Action{}, ErrEmptyPayload
	}
	var m Action
	if err := json.Unmarshal(b, &m); err != nil {
		return service.Action{}, err
	}
	return ToAction(m)
}

func (*JSON) MarshalAction(a service.Action) ([]byte, error) {
	return json.Marshal(FromAction(a))
}

func (*JSON) UnmarshalSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if len(b) == 0 {
		return s, ErrEmptyPayload
	}
	err := json.Unmarshal(b, &s)
	return s, err
}

// Msgpack encodes messages as MessagePack, for compact binary frames.
type Msgpack struct{}

func (*Msgpack) MarshalSnapshot(s service.Snapshot) ([]byte, error) {
	m := FromSnapshot(s)
	return msgpack.Marshal(&m)
}

func (*Msgpack) UnmarshalAction(b []byte) (service.Action, error) {
	if len(b) == 0 {
		return service.Action{}, ErrEmptyPayload
	}
	var m Action
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return service.Action{}, err
	}
	return ToAction(m)
}

func (*Msgpack) MarshalAction(a service.Action) ([]byte, error) {
	m := FromAction(a)
	return msgpack.Marshal(&m)
}

func (*Msgpack) UnmarshalSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if len(b) == 0 {
		return s, ErrEmptyPayload
	}
	err := msgpack.Unmarshal(b, &s)
	return s, err
}
