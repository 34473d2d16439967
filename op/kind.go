// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package op defines the contract between the pixflow engine and the
// operations it runs.
//
// Every operation belongs to exactly one Kind. The kind fixes the pad shape
// of the node hosting the operation and the default region policy: how the
// bounding box is derived from the inputs and which input rectangle a given
// output rectangle needs. Concrete operations override the policy by
// implementing the optional interfaces in this package, and supply pixels
// through the processor interface matching their kind.
//
// The set of kinds is closed. The set of operations is open: classes are
// registered by name in a Registry.
package op

import "fmt"

// Kind is the closed set of operation kinds.
type Kind uint8

const (
	// Source produces pixels from nothing: files, patterns, flat colors.
	Source Kind = iota

	// Sink consumes pixels and has no output pad.
	Sink

	// Filter maps one input to one output.
	Filter

	// Composer combines "input" and "aux" into one output.
	Composer

	// PointFilter is a Filter whose output pixel depends only on the input
	// pixel at the same position. It is driven by a scanline table.
	PointFilter

	// PointComposer is the point-wise Composer.
	PointComposer

	// AreaFilter is a Filter that reads a fixed halo around each output
	// pixel.
	AreaFilter

	// Meta wraps an internal subgraph built once at attach time.
	Meta
)

// Pad names.
const (
	PadInput  = "input"
	PadAux    = "aux"
	PadOutput = "output"
)

var kindNames = [...]string{
	Source:        "source",
	Sink:          "sink",
	Filter:        "filter",
	Composer:      "composer",
	PointFilter:   "point-filter",
	PointComposer: "point-composer",
	AreaFilter:    "area-filter",
	Meta:          "meta",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsComposer reports whether k takes an "aux" input.
func (k Kind) IsComposer() bool {
	return k == Composer || k == PointComposer
}

// IsPoint reports whether k is processed through a scanline table.
func (k Kind) IsPoint() bool {
	return k == PointFilter || k == PointComposer
}

// Inputs returns the input pad names of k. Meta operations may declare an
// extra "aux" pad through MetaPads.
func (k Kind) Inputs() []string {
	switch k {
	case Source:
		return nil
	case Composer, PointComposer:
		return []string{PadInput, PadAux}
	default:
		return []string{PadInput}
	}
}

// HasOutput reports whether k has an "output" pad.
func (k Kind) HasOutput() bool {
	return k != Sink
}
