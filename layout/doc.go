// Package layout turns a [model.Document] into an ordered list of absolute
// drawing commands on fixed-size pages.
//
// Layout is split into five cooperating parts: [Wrap] measures and breaks
// text, a [Cursor] owns the vertical position and decides page breaks, the
// block renderers draw one kind of content each, [Assemble] sequences the
// blocks for every request, and a footer pass stamps every page once the
// page count is known.
//
// Layout never talks to a PDF library. Glyph widths come from a [Measurer]
// and the resulting [DrawCommand] slice is replayed by an encoder.
package layout
