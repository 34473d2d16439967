// Package ops provides the built-in operations of pixflow.
//
// Every operation is a plain struct whose exported fields are its
// properties. The yaml tags name the properties in graph files; change them
// through graph.Node.Update so that caches downstream are invalidated.
//
// RegisterAll adds the operations to a registry:
//
//	reg := op.NewRegistry()
//	if err := ops.RegisterAll(reg); err != nil {
//		...
//	}
package ops

import (
	"errors"

	"github.com/gogpu/pixflow/op"
)

// Classes returns the class of every built-in operation.
func Classes() []op.Class {
	return []op.Class{
		{Name: "nop", Kind: op.Filter, Description: "Passes its input through unchanged", New: func() op.Operation { return &Nop{} }},
		{Name: "color", Kind: op.Source, Description: "Fills the infinite plane with one color", New: func() op.Operation { return NewColor() }},
		{Name: "checkerboard", Kind: op.Source, Description: "Infinite checkerboard pattern", New: func() op.Operation { return NewCheckerboard() }},
		{Name: "buffer-source", Kind: op.Source, Description: "Reads pixels from a tile held in memory", New: func() op.Operation { return &BufferSource{} }},
		{Name: "load", Kind: op.Source, Description: "Decodes a PNG, JPEG, TIFF or BMP file", New: func() op.Operation { return &Load{} }},
		{Name: "text", Kind: op.Source, Description: "Renders a text layout", New: func() op.Operation { return NewText() }},
		{Name: "invert", Kind: op.PointFilter, Description: "Inverts the color channels", New: func() op.Operation { return &Invert{} }},
		{Name: "opacity", Kind: op.PointComposer, Description: "Scales alpha by a value and an optional gray mask on aux", New: func() op.Operation { return NewOpacity() }},
		{Name: "over", Kind: op.PointComposer, Description: "Composites aux onto input with a blend mode", New: func() op.Operation { return &Over{} }},
		{Name: "gaussian-blur", Kind: op.AreaFilter, Description: "Separable Gaussian blur", New: func() op.Operation { return NewGaussianBlur() }},
		{Name: "box-blur", Kind: op.AreaFilter, Description: "Separable box blur", New: func() op.Operation { return NewBoxBlur() }},
		{Name: "crop", Kind: op.Filter, Description: "Limits the input to a rectangle", New: func() op.Operation { return &Crop{} }},
		{Name: "translate", Kind: op.Filter, Description: "Moves the input by whole pixels", New: func() op.Operation { return &Translate{} }},
		{Name: "scale", Kind: op.Filter, Description: "Resamples the input by a scale factor", New: func() op.Operation { return NewScale() }},
		{Name: "buffer-sink", Kind: op.Sink, Description: "Collects its input into a tile held in memory", New: func() op.Operation { return &BufferSink{} }},
		{Name: "save", Kind: op.Sink, Description: "Encodes its input to a PNG, JPEG, TIFF or BMP file", New: func() op.Operation { return &Save{} }},
		{Name: "dropshadow", Kind: op.Meta, Description: "Blurred, offset shadow composited under the input", New: func() op.Operation { return NewDropShadow() }},
	}
}

// RegisterAll registers every built-in operation in r. Classes already
// present are reported in the joined error and left unchanged.
func RegisterAll(r *op.Registry) error {
	var errs []error
	for _, c := range Classes() {
		if err := r.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
