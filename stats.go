package geocorpus

import (
	"fmt"
	"io"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// DefaultProgressEvery is the default progress reporting interval, in
// points.
const DefaultProgressEvery = 125

// coverageGeohashPrecision selects the cell size used for the corpus
// coverage metric. Precision 4 gives cells of roughly 39x20 km, coarse
// enough that a modest corpus visibly covers the globe and fine enough to
// expose clustering.
const coverageGeohashPrecision = 4

// RunStats aggregates counters for a single generation run. A fresh value is
// created per run and threaded through the run explicitly; nothing is shared
// between runs.
type RunStats struct {
	ExpectedPoints int      // total points the run will generate
	TotalResults   int      // aliases generated so far
	MaxResults     int      // largest alias count seen for one point
	MaxResultsAt   GeoPoint // the point that produced MaxResults

	cells map[string]struct{}
}

// NewRunStats returns statistics reset for a run of expected points.
func NewRunStats(expected int) *RunStats {
	return &RunStats{
		ExpectedPoints: expected,
		cells:          make(map[string]struct{}),
	}
}

// Record accumulates the result of one generated point: its alias count and
// the geohash cell it falls in.
func (s *RunStats) Record(resultCount int, p GeoPoint) {
	s.TotalResults += resultCount
	if resultCount > s.MaxResults {
		s.MaxResults = resultCount
		s.MaxResultsAt = p
	}
	if s.cells != nil {
		s.cells[geohash.EncodeWithPrecision(p.Lat, p.Lon, coverageGeohashPrecision)] = struct{}{}
	}
}

// Coverage is the number of distinct geohash cells the run has touched.
func (s *RunStats) Coverage() int { return len(s.cells) }

// ReportProgress writes a progress line for point index i to the diagnostic
// stream. The trailing carriage return keeps the line in place on a
// terminal.
func (s *RunStats) ReportProgress(w io.Writer, i int) {
	pct := 0
	if s.ExpectedPoints > 0 {
		pct = int(float64(i)/float64(s.ExpectedPoints)*100 + 0.5)
	}
	fmt.Fprintf(w, "[%d%%] Processed %d of %d points (generated %d codes)...\r",
		pct, i, s.ExpectedPoints, s.TotalResults)
}

// ReportSummary writes the end-of-run totals to the diagnostic stream.
func (s *RunStats) ReportSummary(w io.Writer) {
	average := 0.0
	if s.ExpectedPoints > 0 {
		average = float64(s.TotalResults) / float64(s.ExpectedPoints)
	}
	fmt.Fprintf(w, "\nStatistics:\n")
	fmt.Fprintf(w, "Total number of points generated     = %d\n", s.ExpectedPoints)
	fmt.Fprintf(w, "Total number of codes generated      = %d\n", s.TotalResults)
	fmt.Fprintf(w, "Average number of codes per point    = %.12g\n", average)
	fmt.Fprintf(w, "Largest number of codes for 1 point  = %d at (%.12g, %.12g)\n",
		s.MaxResults, s.MaxResultsAt.Lat, s.MaxResultsAt.Lon)
	fmt.Fprintf(w, "Distinct geohash cells covered       = %d\n", s.Coverage())
}
