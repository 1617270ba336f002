package geocorpus

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the maximum per-axis delta, in degrees, accepted by
// the decode-direction check.
const DefaultTolerance = 0.001

// Verifier cross-checks codec consistency in both directions: a (point,
// code) pair must encode back to itself and decode back to itself within
// tolerance. The verifier never terminates the process; it reports failures
// as errors and leaves escalation to the caller.
type Verifier struct {
	Codec Codec

	// Tolerance overrides DefaultTolerance when > 0.
	Tolerance float64
}

// MismatchError is a round-trip inconsistency found by the verifier. It
// carries the full numeric context needed to reproduce the failure.
type MismatchError struct {
	Direction string // "encode" or "decode"
	Territory string
	Code      string

	// Lat/Lon is the point under test; FoundLat/FoundLon and the deltas
	// are filled for decode-direction failures.
	Lat, Lon           float64
	FoundLat, FoundLon float64
	DeltaLat, DeltaLon float64
}

func (e *MismatchError) Error() string {
	if e.Direction == "decode" {
		return fmt.Sprintf(
			"decoding code to lat/lon failure: lat=%.12g, lon=%.12g produces '%s %s', "+
				"which decodes to lat=%.12g (delta=%.12g), lon=%.12g (delta=%.12g)",
			e.Lat, e.Lon, e.Territory, e.Code, e.FoundLat, e.DeltaLat, e.FoundLon, e.DeltaLon)
	}
	return fmt.Sprintf(
		"encoding lat/lon to code failure: lat=%.12g, lon=%.12g does not encode back to '%s %s'",
		e.Lat, e.Lon, e.Territory, e.Code)
}

// CheckEncode verifies the encode direction: re-encoding the point under the
// alias's own territory context must reproduce the (territory, code) pair.
// The codec may report the territory fully qualified (e.g. "US-IN" for an
// expected "IN"); both forms match.
func (v *Verifier) CheckEncode(p GeoPoint, territory, code string, extraDigits int) error {
	context := v.Codec.ResolveTerritory(territory)
	lat := math.Min(math.Max(p.Lat, -90), 90)
	lon := math.Min(math.Max(p.Lon, -180), 180)

	results := v.Codec.Encode(lat, lon, context, extraDigits)
	if len(results) == 0 {
		return fmt.Errorf("encoding lat/lon to code failure: %w: lat=%.12g, lon=%.12g (default territory=%s)",
			ErrNoEncoding, p.Lat, p.Lon, territory)
	}
	for _, r := range results {
		if r.Code == code && territoryMatches(territory, r.Territory) {
			return nil
		}
	}
	return &MismatchError{
		Direction: "encode",
		Territory: territory,
		Code:      code,
		Lat:       p.Lat,
		Lon:       p.Lon,
	}
}

// CheckDecode verifies the decode direction: the code must decode to a point
// within tolerance of the expected one, with longitude compared circularly.
func (v *Verifier) CheckDecode(territory, code string, want GeoPoint) error {
	context := v.Codec.ResolveTerritory(territory)
	lat, lon, err := v.Codec.Decode(code, context)
	if err != nil {
		return fmt.Errorf("decoding code to lat/lon failure: cannot decode '%s %s': %w", territory, code, err)
	}

	deltaLat := math.Abs(lat - want.Lat)
	deltaLon := math.Abs(lon - want.Lon)
	if deltaLon > 180 {
		deltaLon = 360 - deltaLon
	}

	tolerance := v.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if deltaLat > tolerance || deltaLon > tolerance {
		return &MismatchError{
			Direction: "decode",
			Territory: territory,
			Code:      code,
			Lat:       want.Lat,
			Lon:       want.Lon,
			FoundLat:  lat,
			FoundLon:  lon,
			DeltaLat:  deltaLat,
			DeltaLon:  deltaLon,
		}
	}
	return nil
}

// territoryMatches reports whether a territory returned by the codec matches
// the expected one, either exactly or after stripping the dash-prefixed
// parent qualifier: a found "US-IN" matches an expected "IN".
func territoryMatches(want, found string) bool {
	if want == found {
		return true
	}
	if i := strings.Index(found, "-"); i >= 0 {
		return want == found[i+1:]
	}
	return false
}
