// Package snapshot round-trips MatchResult/PositionFrame batches through
// msgpack; cmd/matchsim simulate --positions-out writes position frames
// with it. Replay transport itself stays outside the core (§1).
package snapshot

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	match "footballsim"
)

// EncodeResult serialises a MatchResult to msgpack bytes.
func EncodeResult(r match.MatchResult) ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode match result: %w", err)
	}
	return b, nil
}

// DecodeResult parses msgpack bytes produced by EncodeResult.
func DecodeResult(b []byte) (match.MatchResult, error) {
	var r match.MatchResult
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return match.MatchResult{}, fmt.Errorf("decode match result: %w", err)
	}
	return r, nil
}

// EncodePositions serialises a batch of PositionFrame samples to msgpack
// bytes, used by cmd/matchsim simulate --positions-out.
func EncodePositions(frames []match.PositionFrame) ([]byte, error) {
	b, err := msgpack.Marshal(frames)
	if err != nil {
		return nil, fmt.Errorf("encode position frames: %w", err)
	}
	return b, nil
}

// DecodePositions parses msgpack bytes produced by EncodePositions.
func DecodePositions(b []byte) ([]match.PositionFrame, error) {
	var frames []match.PositionFrame
	if err := msgpack.Unmarshal(b, &frames); err != nil {
		return nil, fmt.Errorf("decode position frames: %w", err)
	}
	return frames, nil
}
