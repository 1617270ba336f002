package geocorpus

import (
	"math"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
)

// Sampler produces a finite ordered sequence of candidate points for one
// generation run. Sequences are consumed once, in order; samplers are not
// restartable.
type Sampler interface {
	// Next returns the next point, or ok=false when the sequence is
	// exhausted.
	Next() (p GeoPoint, ok bool)

	// Count is the total number of points the sampler will produce.
	Count() int
}

type gridSampler struct {
	n    int
	side int
	gx   int
	gy   int
	i    int
}

// NewGridSampler returns a deterministic sampler of n points wrapped as a
// grid around the sphere: a round(sqrt(n)) sided 2D counter walked row-major
// and projected through UnitSquareToSphere. Identical n always yields an
// identical sequence.
func NewGridSampler(n int) Sampler {
	side := int(math.Floor(math.Sqrt(float64(n)) + 0.5))
	if side < 1 {
		side = 1
	}
	return &gridSampler{n: n, side: side}
}

func (g *gridSampler) Count() int { return g.n }

func (g *gridSampler) Next() (GeoPoint, bool) {
	if g.i >= g.n {
		return GeoPoint{}, false
	}
	u1 := float64(g.gx) / float64(g.side)
	u2 := float64(g.gy) / float64(g.side)

	// The x counter runs 0..side inclusive before wrapping. Reference
	// corpora depend on this walk, so it is kept as is.
	if g.gx < g.side {
		g.gx++
	} else {
		g.gx = 0
		g.gy++
	}
	g.i++
	return UnitSquareToSphere(u1, u2), true
}

type randomSampler struct {
	n   int
	i   int
	rng *rand.Rand
}

// NewRandomSampler returns a sampler of n uniformly distributed points on
// the sphere. A nonzero seed makes the sequence reproducible; seed 0 derives
// the seed from the wall clock and is non-reproducible by design.
func NewRandomSampler(n int, seed int64) Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomSampler{n: n, rng: rand.New(rand.NewSource(seed))}
}

func (r *randomSampler) Count() int { return r.n }

func (r *randomSampler) Next() (GeoPoint, bool) {
	if r.i >= r.n {
		return GeoPoint{}, false
	}
	r.i++
	u1 := r.rng.Float64()
	u2 := r.rng.Float64()
	return UnitSquareToSphere(u1, u2), true
}

// BoundaryEpsilon is the probe offset, in degrees, used to sample just
// inside and just outside each boundary corner.
const BoundaryEpsilon = 1e-6

// ProbesPerBoundary is the number of points emitted per boundary record:
// the center, the 4 corners, 4 points just inside and 4 just outside.
const ProbesPerBoundary = 13

type boundarySampler struct {
	codec  Codec
	rec    int
	probe  int
	probes [ProbesPerBoundary]GeoPoint
}

// NewBoundarySampler returns a sampler that probes every record of the
// codec's boundary table at its center, corners, and just inside and outside
// each corner.
func NewBoundarySampler(c Codec) Sampler {
	return &boundarySampler{codec: c}
}

func (b *boundarySampler) Count() int {
	return ProbesPerBoundary * b.codec.BoundaryCount()
}

func (b *boundarySampler) Next() (GeoPoint, bool) {
	if b.rec >= b.codec.BoundaryCount() {
		return GeoPoint{}, false
	}
	if b.probe == 0 {
		b.probes = boundaryProbes(b.codec.Boundary(b.rec))
	}
	p := b.probes[b.probe]
	b.probe++
	if b.probe == ProbesPerBoundary {
		b.probe = 0
		b.rec++
	}
	return p, true
}

// boundaryProbes derives the 13 probe points for one boundary record:
// center, corners, corners nudged inside, corners nudged outside.
func boundaryProbes(bound orb.Bound) [ProbesPerBoundary]GeoPoint {
	minLat, maxLat := bound.Min.Lat(), bound.Max.Lat()
	minLon, maxLon := bound.Min.Lon(), bound.Max.Lon()
	center := bound.Center()
	d := BoundaryEpsilon

	return [ProbesPerBoundary]GeoPoint{
		NewGeoPoint(center.Lat(), center.Lon()),

		NewGeoPoint(minLat, minLon),
		NewGeoPoint(minLat, maxLon),
		NewGeoPoint(maxLat, minLon),
		NewGeoPoint(maxLat, maxLon),

		NewGeoPoint(minLat+d, minLon+d),
		NewGeoPoint(minLat+d, maxLon-d),
		NewGeoPoint(maxLat-d, minLon+d),
		NewGeoPoint(maxLat-d, maxLon-d),

		NewGeoPoint(minLat-d, minLon-d),
		NewGeoPoint(minLat-d, maxLon+d),
		NewGeoPoint(maxLat+d, minLon-d),
		NewGeoPoint(maxLat+d, maxLon+d),
	}
}
