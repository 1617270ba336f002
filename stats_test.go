package geocorpus

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunStatsRecord(t *testing.T) {
	s := NewRunStats(3)

	s.Record(2, GeoPoint{Lat: 10, Lon: 20})
	s.Record(5, GeoPoint{Lat: 30, Lon: 40})
	s.Record(1, GeoPoint{Lat: 50, Lon: 60})

	if s.TotalResults != 8 {
		t.Errorf("TotalResults = %d, want 8", s.TotalResults)
	}
	if s.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", s.MaxResults)
	}
	if s.MaxResultsAt != (GeoPoint{Lat: 30, Lon: 40}) {
		t.Errorf("MaxResultsAt = %v, want (30, 40)", s.MaxResultsAt)
	}
}

func TestRunStatsMaxTies(t *testing.T) {
	// A later point with the same alias count must not displace the
	// first maximum.
	s := NewRunStats(2)
	s.Record(3, GeoPoint{Lat: 1, Lon: 1})
	s.Record(3, GeoPoint{Lat: 2, Lon: 2})
	if s.MaxResultsAt != (GeoPoint{Lat: 1, Lon: 1}) {
		t.Errorf("MaxResultsAt = %v, want first point", s.MaxResultsAt)
	}
}

func TestRunStatsCoverage(t *testing.T) {
	s := NewRunStats(3)

	// Two points in the same precision-4 geohash cell, one far away.
	s.Record(1, GeoPoint{Lat: 0.0001, Lon: 0.0001})
	s.Record(1, GeoPoint{Lat: 0.0002, Lon: 0.0002})
	s.Record(1, GeoPoint{Lat: 45, Lon: 90})

	if got := s.Coverage(); got != 2 {
		t.Errorf("Coverage() = %d, want 2", got)
	}
}

func TestReportProgress(t *testing.T) {
	s := NewRunStats(10)
	s.TotalResults = 7

	var buf bytes.Buffer
	s.ReportProgress(&buf, 5)

	out := buf.String()
	if !strings.HasPrefix(out, "[50%] Processed 5 of 10 points") {
		t.Errorf("progress line = %q", out)
	}
	if !strings.Contains(out, "generated 7 codes") {
		t.Errorf("progress line missing result count: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("progress line must end with carriage return, got %q", out)
	}
}

func TestReportSummary(t *testing.T) {
	s := NewRunStats(4)
	s.Record(2, GeoPoint{Lat: 10, Lon: 20})
	s.Record(4, GeoPoint{Lat: -45, Lon: 170})
	// Same precision-4 cell, away from cell boundaries.
	s.Record(1, GeoPoint{Lat: 0.0001, Lon: 0.0001})
	s.Record(1, GeoPoint{Lat: 0.0002, Lon: 0.0002})

	var buf bytes.Buffer
	s.ReportSummary(&buf)
	out := buf.String()

	for _, want := range []string{
		"Statistics:",
		"Total number of points generated     = 4",
		"Total number of codes generated      = 8",
		"Average number of codes per point    = 2",
		"Largest number of codes for 1 point  = 4 at (-45, 170)",
		"Distinct geohash cells covered       = 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in:\n%s", want, out)
		}
	}
}
