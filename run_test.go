package geocorpus

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestRunner(verify, strict bool) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	r := &Runner{
		Codec:  NewTileCodec(),
		Out:    out,
		Diag:   diag,
		Verify: verify,
		Strict: strict,
	}
	return r, out, diag
}

func TestRunGridStrict(t *testing.T) {
	r, out, diag := newTestRunner(true, true)

	stats, err := r.RunGrid(9)
	if err != nil {
		t.Fatalf("RunGrid(9) error: %v", err)
	}
	if stats.ExpectedPoints != 9 {
		t.Errorf("ExpectedPoints = %d, want 9", stats.ExpectedPoints)
	}
	if stats.TotalResults < 9 {
		t.Errorf("TotalResults = %d, want at least one alias per point", stats.TotalResults)
	}
	if out.Len() == 0 {
		t.Error("no corpus records written")
	}
	if !strings.Contains(diag.String(), "Total number of points generated     = 9") {
		t.Errorf("summary missing from diagnostics:\n%s", diag.String())
	}
}

func TestRunGridProgress(t *testing.T) {
	r, _, diag := newTestRunner(false, false)
	r.ProgressEvery = 1

	if _, err := r.RunGrid(4); err != nil {
		t.Fatalf("RunGrid(4) error: %v", err)
	}
	if !strings.Contains(diag.String(), "[0%] Processed 0 of 4 points") {
		t.Errorf("progress line missing from diagnostics:\n%s", diag.String())
	}
}

func TestRunRandomReproducible(t *testing.T) {
	first, out1, _ := newTestRunner(true, true)
	second, out2, _ := newTestRunner(true, true)
	third, out3, _ := newTestRunner(true, true)

	if _, err := first.RunRandom(50, 42); err != nil {
		t.Fatalf("RunRandom error: %v", err)
	}
	if _, err := second.RunRandom(50, 42); err != nil {
		t.Fatalf("RunRandom error: %v", err)
	}
	if _, err := third.RunRandom(50, 43); err != nil {
		t.Fatalf("RunRandom error: %v", err)
	}

	if out1.String() != out2.String() {
		t.Error("same seed produced different corpora")
	}
	if out1.String() == out3.String() {
		t.Error("different seeds produced identical corpora")
	}
}

func TestRunBoundaries(t *testing.T) {
	r, out, _ := newTestRunner(true, true)

	stats, err := r.RunBoundaries()
	if err != nil {
		t.Fatalf("RunBoundaries error: %v", err)
	}
	want := ProbesPerBoundary * r.Codec.BoundaryCount()
	if stats.ExpectedPoints != want {
		t.Errorf("ExpectedPoints = %d, want %d", stats.ExpectedPoints, want)
	}
	if out.Len() == 0 {
		t.Error("no corpus records written")
	}
}

func TestRunnerValidates(t *testing.T) {
	r, _, _ := newTestRunner(false, false)

	if _, err := r.RunGrid(0); err == nil {
		t.Error("RunGrid(0) = nil error, want rejection")
	}
	r.ExtraDigits = 9
	if _, err := r.RunGrid(10); err == nil {
		t.Error("extraDigits=9 accepted, want rejection")
	}
}

func TestEncodeOne(t *testing.T) {
	t.Run("territory context", func(t *testing.T) {
		r, out, _ := newTestRunner(true, true)
		if err := r.EncodeOne(52.376, 4.908, "NLD"); err != nil {
			t.Fatalf("EncodeOne error: %v", err)
		}
		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		if len(lines) != 1 || !strings.HasPrefix(lines[0], "NLD ") {
			t.Errorf("output = %q, want a single NLD alias line", out.String())
		}
	})

	t.Run("global context", func(t *testing.T) {
		r, out, _ := newTestRunner(true, true)
		if err := r.EncodeOne(52.376, 4.908, ""); err != nil {
			t.Fatalf("EncodeOne error: %v", err)
		}
		if !strings.Contains(out.String(), "NLD ") || !strings.Contains(out.String(), "AAA ") {
			t.Errorf("output = %q, want NLD and AAA aliases", out.String())
		}
	})

	t.Run("point outside territory", func(t *testing.T) {
		r, _, _ := newTestRunner(false, false)
		err := r.EncodeOne(52.376, 4.908, "US")
		if !errors.Is(err, ErrNoEncoding) {
			t.Errorf("err = %v, want ErrNoEncoding", err)
		}
	})
}

func TestDecodeAll(t *testing.T) {
	codec := NewTileCodec()
	good := codec.Encode(52.376, 4.908, codec.ResolveTerritory("NLD"), 2)[0].Code

	t.Run("all decode", func(t *testing.T) {
		r, out, _ := newTestRunner(true, true)
		if err := r.DecodeAll("NLD", good); err != nil {
			t.Fatalf("DecodeAll error: %v", err)
		}
		fields := strings.Fields(out.String())
		if len(fields) != 2 {
			t.Fatalf("output = %q, want one lat/lon line", out.String())
		}
	})

	t.Run("bad code is skipped", func(t *testing.T) {
		r, out, diag := newTestRunner(false, false)
		err := r.DecodeAll("NLD", "!!!", good)
		if err == nil {
			t.Error("err = nil, want a failure summary")
		}
		if !strings.Contains(diag.String(), "cannot decode 'NLD !!!'") {
			t.Errorf("diagnostics = %q, want a report for the bad code", diag.String())
		}
		if len(strings.Fields(out.String())) != 2 {
			t.Errorf("output = %q, want the good code still decoded", out.String())
		}
	})
}

// skewedCodec decodes one degree north of where it should, so every
// decode-direction check fails.
type skewedCodec struct {
	*TileCodec
}

func (c *skewedCodec) Decode(code string, context int) (float64, float64, error) {
	lat, lon, err := c.TileCodec.Decode(code, context)
	return lat + 1, lon, err
}

func TestSelfCheckPolicy(t *testing.T) {
	t.Run("non-strict reports and continues", func(t *testing.T) {
		r, _, diag := newTestRunner(true, false)
		r.Codec = &skewedCodec{TileCodec: NewTileCodec()}

		stats, err := r.RunGrid(4)
		if err != nil {
			t.Fatalf("non-strict run aborted: %v", err)
		}
		if stats.ExpectedPoints != 4 {
			t.Errorf("ExpectedPoints = %d, want 4", stats.ExpectedPoints)
		}
		if !strings.Contains(diag.String(), "decoding code to lat/lon failure") {
			t.Errorf("diagnostics = %q, want mismatch reports", diag.String())
		}
	})

	t.Run("strict aborts on first failure", func(t *testing.T) {
		r, _, _ := newTestRunner(true, true)
		r.Codec = &skewedCodec{TileCodec: NewTileCodec()}

		_, err := r.RunGrid(4)
		var selfCheck *SelfCheckError
		if !errors.As(err, &selfCheck) {
			t.Fatalf("err = %v, want *SelfCheckError", err)
		}
		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("err = %v, want a wrapped *MismatchError", err)
		}
		if mismatch.Direction != "decode" {
			t.Errorf("Direction = %q, want decode", mismatch.Direction)
		}
	})
}
