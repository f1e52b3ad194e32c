package io

import (
	"iter"
)

// Emitted is a single value sent to an output.
type Emitted struct {
	Kind  Kind
	Value byte
}

// Recorder keeps every emitted value in order.
type Recorder struct {
	Data []Emitted
}

// Number records a PRN value.
func (rec *Recorder) Number(value byte) error {
	rec.Data = append(rec.Data, Emitted{Kind: KIND_NUMBER, Value: value})
	return nil
}

// Char records a PRA value.
func (rec *Recorder) Char(value byte) error {
	rec.Data = append(rec.Data, Emitted{Kind: KIND_CHAR, Value: value})
	return nil
}

// Values returns an iterator over the recorded values of one kind.
func (rec *Recorder) Values(kind Kind) iter.Seq[byte] {
	return func(yield func(value byte) bool) {
		for _, item := range rec.Data {
			if item.Kind != kind {
				continue
			}
			if !yield(item.Value) {
				return
			}
		}
	}
}

// Reset discards all recorded values.
func (rec *Recorder) Reset() {
	rec.Data = nil
}
