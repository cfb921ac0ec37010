package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the persisted datastore: both collections in storage order.
type Document struct {
	Workouts []Workout `json:"workouts"`
	Records  []Record  `json:"records"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{Workouts: []Workout{}, Records: []Record{}}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Workouts: make([]Workout, len(d.Workouts)),
		Records:  make([]Record, len(d.Records)),
	}
	for i, w := range d.Workouts {
		out.Workouts[i] = w.Clone()
	}
	copy(out.Records, d.Records)
	return out
}

// normalize replaces nil collections so they serialise as [] rather than null.
func (d *Document) normalize() {
	if d.Workouts == nil {
		d.Workouts = []Workout{}
	}
	if d.Records == nil {
		d.Records = []Record{}
	}
}

// EncodeDocument serialises d with two-space indentation and no HTML escaping.
// The output has no trailing newline.
func EncodeDocument(d *Document) ([]byte, error) {
	d.normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeDocument parses a serialised document. Missing collections decode as empty.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	d.normalize()
	return &d, nil
}
