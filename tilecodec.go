package geocorpus

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// TileCodec is a small self-consistent geocoding codec used as the test
// collaborator and as the CLI's default codec when no real one is linked in.
// It quantizes coordinates into 0.001° tiles per territory and spells the
// tile index in base 31, with an optional dash suffix of extra digits that
// refine the position inside the tile.
//
// It deliberately implements only the Codec contract and round-trip
// consistency within DefaultTolerance; it is a stand-in for the external
// codec, not a reimplementation of it.
type TileCodec struct {
	territories []tileTerritory
}

// tileStep is the tile size in degrees; small enough that a tile center is
// always within DefaultTolerance of any point in the tile.
const tileStep = 0.001

// tileAlphabet spells tile indexes in base 31: digits plus consonants, so
// codes never form words.
const tileAlphabet = "0123456789BCDFGHJKLMNPQRSTVWXYZ"

// tileTerritory is one record of the boundary table. Bounds are stored in
// microdegrees, the external database's native unit.
type tileTerritory struct {
	name             string
	latLoE6, latHiE6 int64
	lonLoE6, lonHiE6 int64
}

func (t tileTerritory) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(t.lonLoE6) / 1e6, float64(t.latLoE6) / 1e6},
		Max: orb.Point{float64(t.lonHiE6) / 1e6, float64(t.latHiE6) / 1e6},
	}
}

// gridSize returns the tile grid dimensions. Bounds are integer
// microdegrees, so the division is exact.
func (t tileTerritory) gridSize() (cols, rows int64) {
	return (t.lonHiE6 - t.lonLoE6) / 1000, (t.latHiE6 - t.latLoE6) / 1000
}

// defaultTileTerritories lists subdivisions before their parents so that
// encoding yields the most specific alias first. Index 0 is the global
// territory.
var defaultTileTerritories = []tileTerritory{
	{name: "AAA", latLoE6: -90_000_000, latHiE6: 90_000_000, lonLoE6: -180_000_000, lonHiE6: 180_000_000},
	{name: "US-IN", latLoE6: 37_800_000, latHiE6: 41_800_000, lonLoE6: -88_100_000, lonHiE6: -84_800_000},
	{name: "US-TX", latLoE6: 25_800_000, latHiE6: 36_500_000, lonLoE6: -106_700_000, lonHiE6: -93_500_000},
	{name: "US", latLoE6: 24_000_000, latHiE6: 49_000_000, lonLoE6: -125_000_000, lonHiE6: -66_000_000},
	{name: "CA-ON", latLoE6: 41_700_000, latHiE6: 56_900_000, lonLoE6: -95_200_000, lonHiE6: -74_300_000},
	{name: "FRA", latLoE6: 41_300_000, latHiE6: 51_100_000, lonLoE6: -5_100_000, lonHiE6: 9_600_000},
	{name: "NLD", latLoE6: 50_700_000, latHiE6: 53_600_000, lonLoE6: 3_300_000, lonHiE6: 7_200_000},
}

// NewTileCodec returns a codec over the built-in boundary table.
func NewTileCodec() *TileCodec {
	return &TileCodec{territories: defaultTileTerritories}
}

// ResolveTerritory maps a name to its context id. Abbreviated subdivision
// names resolve when unambiguous: "IN" resolves to "US-IN". Unknown names
// map to the global context.
func (c *TileCodec) ResolveTerritory(name string) int {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return GlobalContext
	}
	for i, t := range c.territories {
		if t.name == name {
			return i
		}
	}
	match, matches := 0, 0
	for i, t := range c.territories {
		if j := strings.Index(t.name, "-"); j >= 0 && t.name[j+1:] == name {
			match = i
			matches++
		}
	}
	if matches == 1 {
		return match
	}
	return GlobalContext
}

// Encode returns the aliases for a point: one per containing territory, most
// specific first, plus the global alias when encoding under the global
// context. A non-global context restricts the result to that territory; a
// point outside it yields no aliases.
func (c *TileCodec) Encode(lat, lon float64, context, extraDigits int) []Result {
	if extraDigits < 0 || extraDigits > 8 {
		return nil
	}
	p := NewGeoPoint(lat, lon)
	pt := orb.Point{p.Lon, p.Lat}

	var results []Result
	for i, t := range c.territories {
		if i == GlobalContext {
			continue
		}
		if context != GlobalContext && context != i {
			continue
		}
		if !t.bound().Contains(pt) {
			continue
		}
		results = append(results, Result{Code: encodeTile(t, p, extraDigits), Territory: t.name})
	}
	if context == GlobalContext {
		results = append(results, Result{
			Code:      encodeTile(c.territories[GlobalContext], p, extraDigits),
			Territory: c.territories[GlobalContext].name,
		})
	}
	return results
}

// Decode resolves a code under a context. The context picks the territory
// grid the tile index refers to.
func (c *TileCodec) Decode(code string, context int) (float64, float64, error) {
	if context < 0 || context >= len(c.territories) {
		context = GlobalContext
	}
	t := c.territories[context]

	base, suffix, _ := strings.Cut(strings.ToUpper(strings.TrimSpace(code)), "-")
	base = strings.ReplaceAll(base, ".", "")
	n, err := parseBase31(base)
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable code %q: %w", code, err)
	}
	cols, rows := t.gridSize()
	if n >= cols*rows {
		return 0, 0, fmt.Errorf("code %q does not resolve within territory %s", code, t.name)
	}
	row, col := n/cols, n%cols

	latLo := float64(t.latLoE6)/1e6 + float64(row)*tileStep
	lonLo := float64(t.lonLoE6)/1e6 + float64(col)*tileStep
	latSpan, lonSpan := tileStep, tileStep
	for k := 0; k < len(suffix); k++ {
		d := suffix[k] - '0'
		if d > 9 {
			return 0, 0, fmt.Errorf("unparseable code %q: bad precision suffix", code)
		}
		if k%2 == 0 {
			lonSpan /= 10
			lonLo += float64(d) * lonSpan
		} else {
			latSpan /= 10
			latLo += float64(d) * latSpan
		}
	}
	return latLo + latSpan/2, lonLo + lonSpan/2, nil
}

// BoundaryCount returns the size of the boundary table.
func (c *TileCodec) BoundaryCount() int { return len(c.territories) }

// Boundary returns boundary record i in degrees.
func (c *TileCodec) Boundary(i int) orb.Bound { return c.territories[i].bound() }

// encodeTile spells the point's tile within a territory, refining with
// extraDigits alternating longitude/latitude sub-tile digits.
func encodeTile(t tileTerritory, p GeoPoint, extraDigits int) string {
	cols, rows := t.gridSize()
	minLat := float64(t.latLoE6) / 1e6
	minLon := float64(t.lonLoE6) / 1e6

	col := clampIndex(int64((p.Lon-minLon)/tileStep), cols)
	row := clampIndex(int64((p.Lat-minLat)/tileStep), rows)
	code := formatBase31(row*cols + col)

	if extraDigits == 0 {
		return code
	}
	fLon := (p.Lon-minLon)/tileStep - float64(col)
	fLat := (p.Lat-minLat)/tileStep - float64(row)
	suffix := make([]byte, 0, extraDigits)
	for k := 0; k < extraDigits; k++ {
		var d int
		if k%2 == 0 {
			fLon *= 10
			d = int(fLon) % 10
		} else {
			fLat *= 10
			d = int(fLat) % 10
		}
		if d < 0 {
			d = 0
		}
		suffix = append(suffix, byte('0'+d))
	}
	return code + "-" + string(suffix)
}

func clampIndex(i, n int64) int64 {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// formatBase31 spells n in the tile alphabet, padded to at least four
// characters, with a dot before the last two for readability.
func formatBase31(n int64) string {
	buf := make([]byte, 0, 8)
	for {
		buf = append(buf, tileAlphabet[n%31])
		n /= 31
		if n == 0 {
			break
		}
	}
	for len(buf) < 4 {
		buf = append(buf, tileAlphabet[0])
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf[:len(buf)-2]) + "." + string(buf[len(buf)-2:])
}

func parseBase31(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty code")
	}
	var n int64
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(tileAlphabet, s[i])
		if v < 0 {
			return 0, fmt.Errorf("invalid character %q", s[i])
		}
		if n > (math.MaxInt64-int64(v))/31 {
			return 0, fmt.Errorf("index out of range")
		}
		n = n*31 + int64(v)
	}
	return n, nil
}
