// Package codec frames v1 wire messages as kind-discriminated JSON
// envelopes, one message per line. Decoding is strict for recognized kinds
// and tolerant of unrecognized ones, which surface as wire.Unknown so the
// bridge can drop them without failing the stream.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses one framed wire message.
func Decode(data []byte) (wire.Event, error) {
	var env envelope
	if err := strictUnmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode wire envelope: %w", err)
	}
	if env.Kind == "" {
		return nil, fmt.Errorf("decode wire envelope: kind is required")
	}

	switch wire.Kind(env.Kind) {
	case wire.KindTestStarted:
		var ev wire.TestStarted
		if err := strictUnmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		return ev, nil
	case wire.KindTestFinished:
		var ev wire.TestFinished
		if err := strictUnmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		return ev, nil
	default:
		return wire.Unknown{
			Kind:    env.Kind,
			Payload: append(json.RawMessage(nil), env.Payload...),
		}, nil
	}
}

// Encode frames one wire event as an envelope line without the trailing
// newline. Unknown events re-encode with their original payload.
func Encode(event wire.Event) ([]byte, error) {
	var kind string
	var payload any
	switch ev := event.(type) {
	case wire.TestStarted:
		kind, payload = string(wire.KindTestStarted), ev
	case wire.TestFinished:
		kind, payload = string(wire.KindTestFinished), ev
	case wire.Unknown:
		if ev.Kind == "" {
			return nil, fmt.Errorf("encode wire event: unknown event kind is required")
		}
		raw := ev.Payload
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		return json.Marshal(envelope{Kind: ev.Kind, Payload: raw})
	default:
		return nil, fmt.Errorf("encode wire event: unsupported event type %T", event)
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return json.Marshal(envelope{Kind: kind, Payload: rawPayload})
}

// WriteLine encodes event and appends it to w as one NDJSON line.
func WriteLine(w io.Writer, event wire.Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write wire event: %w", err)
	}
	return nil
}

func strictUnmarshal(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("unexpected trailing JSON payload")
	}
	return nil
}
