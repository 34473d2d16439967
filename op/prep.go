package op

import "github.com/gogpu/pixflow/tile"

// DefaultFormat is the format of every pad an operation does not declare.
var DefaultFormat = tile.RGBAFloat

// Prep carries format negotiation for one node. The engine fills in the
// formats of connected producers before calling Preparer.Prepare; the
// operation then declares the formats it wants on its own pads.
type Prep struct {
	sources  map[string]tile.Model
	declared map[string]tile.Model
}

// NewPrep creates a Prep. sources maps connected input pads to the output
// format of their producer.
func NewPrep(sources map[string]tile.Model) *Prep {
	return &Prep{sources: sources, declared: make(map[string]tile.Model)}
}

// Source returns the format delivered to pad by its producer.
func (p *Prep) Source(pad string) (tile.Model, bool) {
	m, ok := p.sources[pad]
	return m, ok
}

// SetFormat declares the format of pad. Inputs in another format are
// converted by the engine before processing.
func (p *Prep) SetFormat(pad string, m tile.Model) {
	p.declared[pad] = m
}

// Format returns the declared format of pad, or DefaultFormat.
func (p *Prep) Format(pad string) tile.Model {
	if m, ok := p.declared[pad]; ok {
		return m
	}
	return DefaultFormat
}
