package geocorpus

import (
	"fmt"
	"io"
)

// Formatter renders corpus records in the fixed reference format:
//
//	<aliasCount> <lat> <lon> [<x> <y> <z>]
//	<territory1> <code1>
//	...
//	<territoryN> <codeN>
//	<blank line>
//
// All floating values use a 12-significant-digit representation. The layout
// is an external contract shared with other codec implementations; do not
// change it.
type Formatter struct {
	Out io.Writer

	// XYZ adds unit-sphere Cartesian coordinates to the header line.
	XYZ bool
}

// EmitRecord writes one record for a point and its aliases. An empty result
// list still emits a header (alias count 0) and the separator.
func (f *Formatter) EmitRecord(p GeoPoint, results []Result) {
	if f.XYZ {
		v := p.XYZ()
		fmt.Fprintf(f.Out, "%d %.12g %.12g %.12g %.12g %.12g\n",
			len(results), p.Lat, p.Lon, v.X, v.Y, v.Z)
	} else {
		fmt.Fprintf(f.Out, "%d %.12g %.12g\n", len(results), p.Lat, p.Lon)
	}
	for _, r := range results {
		fmt.Fprintf(f.Out, "%s %s\n", r.Territory, r.Code)
	}
	fmt.Fprintln(f.Out)
}
