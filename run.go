package geocorpus

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Runner drives corpus generation and the direct encode/decode modes. Each
// generation run gets its own RunStats; a Runner holds no cross-run state
// and may be reused sequentially.
type Runner struct {
	Codec Codec
	Out   io.Writer // corpus records
	Diag  io.Writer // progress, statistics, self-check reports

	// Verify enables the round-trip oracle on every generated alias.
	// Strict additionally aborts the run on the first failure; without it
	// failures are reported to Diag and generation continues.
	Verify bool
	Strict bool

	ExtraDigits   int  // 0..8, higher-precision code variants
	XYZ           bool // add Cartesian columns to record headers
	ProgressEvery int  // 0 means DefaultProgressEvery
	Tolerance     float64
}

// SelfCheckError marks a run aborted by the verification oracle: a codec
// inconsistency found during generation invalidates the corpus.
type SelfCheckError struct {
	Err error
}

func (e *SelfCheckError) Error() string { return "self-check failed: " + e.Err.Error() }
func (e *SelfCheckError) Unwrap() error { return e.Err }

// RunGrid generates a deterministic grid corpus of n points.
func (r *Runner) RunGrid(n int) (*RunStats, error) {
	if err := r.validate(n); err != nil {
		return nil, err
	}
	return r.run(NewGridSampler(n))
}

// RunRandom generates a corpus of n uniformly distributed points. A nonzero
// seed makes the corpus reproducible.
func (r *Runner) RunRandom(n int, seed int64) (*RunStats, error) {
	if err := r.validate(n); err != nil {
		return nil, err
	}
	return r.run(NewRandomSampler(n, seed))
}

// RunBoundaries generates the boundary-derived edge-case corpus: 13 probes
// per record of the codec's boundary table.
func (r *Runner) RunBoundaries() (*RunStats, error) {
	if err := r.validate(1); err != nil {
		return nil, err
	}
	return r.run(NewBoundarySampler(r.Codec))
}

func (r *Runner) validate(n int) error {
	if n < 1 {
		return fmt.Errorf("total number of points to generate must be >= 1, got %d", n)
	}
	if r.ExtraDigits < 0 || r.ExtraDigits > 8 {
		return fmt.Errorf("extraDigits must be in [0..8], got %d", r.ExtraDigits)
	}
	return nil
}

func (r *Runner) run(s Sampler) (*RunStats, error) {
	stats := NewRunStats(s.Count())
	formatter := &Formatter{Out: r.Out, XYZ: r.XYZ}
	every := r.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	for i := 0; ; i++ {
		p, ok := s.Next()
		if !ok {
			break
		}
		if err := r.generate(p, formatter, stats); err != nil {
			return stats, err
		}
		if i%every == 0 {
			stats.ReportProgress(r.Diag, i)
		}
	}
	stats.ReportSummary(r.Diag)
	return stats, nil
}

// generate encodes one point under the global context, optionally verifies
// every alias in both directions, emits the record and updates stats. Encode
// failures are tolerated here: the record simply carries alias count 0.
func (r *Runner) generate(p GeoPoint, formatter *Formatter, stats *RunStats) error {
	results := r.Codec.Encode(p.Lat, p.Lon, GlobalContext, r.ExtraDigits)
	formatter.EmitRecord(p, results)

	if r.Verify {
		verifier := r.verifier()
		for _, res := range results {
			if err := verifier.CheckEncode(p, res.Territory, res.Code, r.ExtraDigits); err != nil {
				if failed := r.report(err); failed != nil {
					return failed
				}
			}
			if err := verifier.CheckDecode(res.Territory, res.Code, p); err != nil {
				if failed := r.report(err); failed != nil {
					return failed
				}
			}
		}
	}

	stats.Record(len(results), p)
	return nil
}

// EncodeOne is the direct encode mode: every alias for the point under the
// given territory context is written as "<territory> <code>". Zero aliases
// is a hard input error in this mode.
func (r *Runner) EncodeOne(lat, lon float64, territory string) error {
	if err := r.validate(1); err != nil {
		return err
	}
	context := GlobalContext
	name := "AAA"
	if territory != "" {
		context = r.Codec.ResolveTerritory(territory)
		name = territory
	}

	results := r.Codec.Encode(lat, lon, context, r.ExtraDigits)
	if len(results) == 0 {
		return fmt.Errorf("%w: lat=%.12g, lon=%.12g (default territory=%s)", ErrNoEncoding, lat, lon, name)
	}

	p := NewGeoPoint(lat, lon)
	for _, res := range results {
		fmt.Fprintf(r.Out, "%s %s\n", res.Territory, res.Code)
		if r.Verify {
			if err := r.verifier().CheckDecode(res.Territory, res.Code, p); err != nil {
				if failed := r.report(err); failed != nil {
					return failed
				}
			}
		}
	}
	return nil
}

// DecodeAll is the direct decode mode: each code is decoded under the
// default territory context and written as "<lat> <lon>". A failing code is
// reported and skipped; the remainder still decodes. The returned error
// reflects whether any code failed.
func (r *Runner) DecodeAll(territory string, codes ...string) error {
	context := r.Codec.ResolveTerritory(territory)
	failed := false

	for _, code := range codes {
		lat, lon, err := r.Codec.Decode(code, context)
		if err != nil {
			fmt.Fprintf(r.Diag, "error: cannot decode '%s %s': %v\n", territory, code, err)
			failed = true
			continue
		}
		fmt.Fprintf(r.Out, "%.12g %.12g\n", lat, lon)

		if r.Verify {
			// The precision the code was produced with is visible in
			// its dash suffix; re-encode at that precision.
			extraDigits := 0
			if i := strings.Index(code, "-"); i >= 0 {
				extraDigits = len(code) - i - 1
			}
			if err := r.verifier().CheckEncode(NewGeoPoint(lat, lon), territory, code, extraDigits); err != nil {
				if abort := r.report(err); abort != nil {
					return abort
				}
			}
		}
	}
	if failed {
		return errors.New("one or more codes could not be decoded")
	}
	return nil
}

func (r *Runner) verifier() *Verifier {
	return &Verifier{Codec: r.Codec, Tolerance: r.Tolerance}
}

// report writes a self-check failure to the diagnostic stream. In strict
// mode it also returns the failure, wrapped, so the run aborts.
func (r *Runner) report(err error) error {
	fmt.Fprintf(r.Diag, "error: %v\n", err)
	if r.Strict {
		return &SelfCheckError{Err: err}
	}
	return nil
}
