package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes snapshots for blob-backed caches.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes snapshots as
// {"items": [[key, entry], ...], "config": {...}}.
var JSONCodec Codec = jsonCodec{}

// MsgpackCodec encodes the same structure as JSONCodec in MessagePack.
var MsgpackCodec Codec = msgpackCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Snapshot is the persisted form of a cache: every entry plus the
// configuration it was written with.
type Snapshot[V any] struct {
	Items  []Item[V]      `json:"items" msgpack:"items"`
	Config ConfigSnapshot `json:"config" msgpack:"config"`
}

// Item is a key and its entry, encoded as a two-element array.
type Item[V any] struct {
	Key   string
	Entry *Entry[V]
}

var errMalformedItem = errors.New("item must be a [key, entry] pair")

func (it Item[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{it.Key, it.Entry})
}

func (it *Item[V]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errMalformedItem
	}
	if err := json.Unmarshal(raw[0], &it.Key); err != nil {
		return fmt.Errorf("item key: %w", err)
	}
	it.Entry = new(Entry[V])
	if err := json.Unmarshal(raw[1], it.Entry); err != nil {
		return fmt.Errorf("item %q: %w", it.Key, err)
	}
	return nil
}

func (it Item[V]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeString(it.Key); err != nil {
		return err
	}
	return enc.Encode(it.Entry)
}

func (it *Item[V]) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return errMalformedItem
	}
	if it.Key, err = dec.DecodeString(); err != nil {
		return fmt.Errorf("item key: %w", err)
	}
	it.Entry = new(Entry[V])
	if err := dec.Decode(it.Entry); err != nil {
		return fmt.Errorf("item %q: %w", it.Key, err)
	}
	return nil
}

// EncodeSnapshot serializes entries and cfg with codec. Items are written
// oldest first so that decoding restores eviction order.
func EncodeSnapshot[V any](codec Codec, entries map[string]*Entry[V], cfg ConfigSnapshot) ([]byte, error) {
	data, err := codec.Marshal(Snapshot[V]{
		Items:  sortedItems(entries),
		Config: cfg,
	})
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// DecodeSnapshot parses data produced by EncodeSnapshot. Entries are keyed
// by the item key and numbered in item order.
func DecodeSnapshot[V any](codec Codec, data []byte) (map[string]*Entry[V], ConfigSnapshot, error) {
	var snap Snapshot[V]
	if err := codec.Unmarshal(data, &snap); err != nil {
		return nil, ConfigSnapshot{}, errors.Join(ErrDecode, err)
	}

	entries := make(map[string]*Entry[V], len(snap.Items))
	for i, it := range snap.Items {
		if it.Entry == nil {
			continue
		}
		it.Entry.Key = it.Key
		it.Entry.seq = uint64(i + 1)
		entries[it.Key] = it.Entry
	}

	return entries, snap.Config, nil
}
