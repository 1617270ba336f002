// Package geocorpus generates reference test corpora for a geocoding codec
// (a codec that maps lat/lon pairs to short alphanumeric codes and back) and
// self-verifies the codec's round-trip consistency.
//
// The codec itself (alphabet tables, territory boundary database,
// encode/decode algorithms) is an external collaborator behind the Codec
// interface. This package supplies the parts around it: coordinate sampling
// (grid, seeded random on a sphere, boundary-derived edge cases), a
// bidirectional round-trip verification oracle with numeric tolerance, run
// statistics with progress reporting, and the fixed corpus record format.
//
// Corpus records go to a primary output stream; progress and statistics go
// to a separate diagnostic stream, so output can be redirected independently
// of progress monitoring.
package geocorpus

import (
	"errors"

	"github.com/paulmach/orb"
)

// GlobalContext is the territory context covering the whole world. Unknown
// territory names resolve to it.
const GlobalContext = 0

// Result is one (code, territory) alias for a point. A single point usually
// has several aliases; their order is as returned by the codec and is
// preserved (it matters for max-alias tracking, not for correctness).
type Result struct {
	Code      string
	Territory string
}

// Codec is the external geocoding codec driven by this package.
//
// Implementations must be reentrant across sequential calls; this package
// never calls a Codec concurrently.
type Codec interface {
	// ResolveTerritory maps a territory name to a context id. It never
	// fails: unknown names map to GlobalContext.
	ResolveTerritory(name string) int

	// Encode returns every (code, territory) alias for a point under the
	// given context. An empty slice means the point cannot be encoded
	// under this context. extraDigits (0..8) selects higher-precision
	// code variants.
	Encode(lat, lon float64, context, extraDigits int) []Result

	// Decode resolves a code to a lat/lon under the given context. An
	// error means the code is unparseable or unresolvable.
	Decode(code string, context int) (lat, lon float64, err error)

	// BoundaryCount reports the size of the codec's territory boundary
	// table; Boundary returns record i of that table, in degrees.
	BoundaryCount() int
	Boundary(i int) orb.Bound
}

// ErrNoEncoding is returned when the codec produces no aliases for a point.
var ErrNoEncoding = errors.New("cannot encode point")
