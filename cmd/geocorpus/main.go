// Command geocorpus drives a geocoding codec to produce reference test
// corpora and to self-verify its encode/decode round-trip consistency.
//
// Corpus records go to stdout; progress, statistics and errors go to
// stderr, so stdout can be redirected to a corpus file while stderr shows
// progress. Running a binary whose name contains "debug" (or setting
// GEOCORPUS_DEBUG=1) enables strict self-checking: any codec inconsistency
// found during generation aborts with an internal-error status.
//
// Exit status: 0 on success, 1 on a usage or input error, 2 on an internal
// or self-check error.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/andreiashu/geocorpus"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitInternal = 2
)

func usage(appName string) {
	fmt.Fprintf(os.Stderr, `Usage:
    %[1]s [-d | --decode] <default-territory> <code> [<code> ...]

       Decode a code to a lat/lon. The default territory is used if the
       code is a shorthand local code.

    %[1]s [-e[0-8] | --encode[0-8]] <lat:-90..90> <lon:-180..180> [territory]

       Encode a lat/lon to a code. If a territory is specified, the encoding
       only succeeds if the lat/lon is located in that territory. The digit
       suffix selects 0-8 additional digits for high-precision codes.

    %[1]s [-b[XYZ] | --boundaries[XYZ]] [<extraDigits>]
    %[1]s [-g[XYZ] | --grid[XYZ]]   <nrOfPoints> [<extraDigits>]
    %[1]s [-r[XYZ] | --random[XYZ]] <nrOfPoints> [<extraDigits>] [<seed>]

       Create a test set of lat/lon pairs based on the codec's boundary
       database, as a fixed grid wrapped around the Earth, or as a random
       uniformly distributed set, with all code aliases per point.

       <extraDigits>: 0-8; additional accuracy, use 0 for standard.
       <seed>: random seed, use 0 for arbitrary (specify a nonzero seed to
       regenerate identical test sets).

       The output format is:
           <number-of-aliases> <lat-deg> <lon-deg> [<x> <y> <z>]
           <territory> <code>       (repeated number-of-aliases times)
                                    (empty line between records)
       Ranges:
           number-of-aliases : >= 1
           lat-deg, lon-deg  : [-90..90], [-180..180]
           x, y, z           : [-1..1]

       The XYZ variants add (x, y, z) coordinates on a unit sphere, meant
       for visualization of the data set.

       stdout carries the point data; stderr carries progress and
       statistics, so stdout can be redirected to a corpus file.

       The result code is 0 when no error occurred, 1 if an input error
       occurred and 2 if an internal error occurred.
`, appName)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	os.Exit(run(os.Args))
}

func run(args []string) int {
	appName := filepath.Base(args[0])
	strict := strings.Contains(appName, "debug") || os.Getenv("GEOCORPUS_DEBUG") == "1"
	if strict {
		fmt.Fprintln(os.Stderr, "(debug mode: self checking enabled)")
	}
	if len(args) < 2 {
		usage(appName)
		return exitUsage
	}

	runner := &geocorpus.Runner{
		Codec:         geocorpus.NewTileCodec(),
		Out:           os.Stdout,
		Diag:          os.Stderr,
		Verify:        strict,
		Strict:        strict,
		ProgressEvery: envInt("GEOCORPUS_PROGRESS_EVERY", 0),
	}

	cmd := args[1]
	switch {
	case cmd == "-d" || cmd == "--decode":
		if len(args) < 4 {
			fmt.Fprintf(os.Stderr, "error: incorrect number of arguments\n\n")
			usage(appName)
			return exitUsage
		}
		if err := runner.DecodeAll(args[2], args[3:]...); err != nil {
			return exitCode(err)
		}

	case strings.HasPrefix(cmd, "-e") || strings.HasPrefix(cmd, "--encode"):
		extraDigits, ok := encodeExtraDigits(cmd)
		if !ok {
			usage(appName)
			return exitUsage
		}
		if len(args) != 4 && len(args) != 5 {
			fmt.Fprintf(os.Stderr, "error: incorrect number of arguments\n\n")
			usage(appName)
			return exitUsage
		}
		lat, errLat := strconv.ParseFloat(args[2], 64)
		lon, errLon := strconv.ParseFloat(args[3], 64)
		if errLat != nil || errLon != nil {
			fmt.Fprintln(os.Stderr, "error: latitude and longitude must be numeric")
			usage(appName)
			return exitUsage
		}
		territory := ""
		if len(args) == 5 {
			territory = args[4]
		}
		runner.ExtraDigits = extraDigits
		if err := runner.EncodeOne(lat, lon, territory); err != nil {
			return exitCode(err)
		}

	case cmd == "-b" || cmd == "-bXYZ" || cmd == "--boundaries" || cmd == "--boundariesXYZ":
		if len(args) > 3 {
			fmt.Fprintf(os.Stderr, "error: incorrect number of arguments\n\n")
			usage(appName)
			return exitUsage
		}
		extraDigits := 0
		if len(args) == 3 {
			var ok bool
			if extraDigits, ok = parseExtraDigits(args[2]); !ok {
				fmt.Fprintf(os.Stderr, "error: parameter extraDigits must be in [0..8]\n\n")
				usage(appName)
				return exitUsage
			}
		}
		runner.ExtraDigits = extraDigits
		runner.XYZ = strings.Contains(cmd, "XYZ")
		slog.Info("generating boundary corpus", "records", runner.Codec.BoundaryCount(), "strict", strict)
		if _, err := runner.RunBoundaries(); err != nil {
			return exitCode(err)
		}

	case cmd == "-g" || cmd == "-gXYZ" || cmd == "--grid" || cmd == "--gridXYZ" ||
		cmd == "-r" || cmd == "-rXYZ" || cmd == "--random" || cmd == "--randomXYZ":
		if len(args) < 3 || len(args) > 5 {
			fmt.Fprintf(os.Stderr, "error: incorrect number of arguments\n\n")
			usage(appName)
			return exitUsage
		}
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "error: total number of points to generate must be >= 1\n\n")
			usage(appName)
			return exitUsage
		}
		extraDigits := 0
		if len(args) >= 4 {
			var ok bool
			if extraDigits, ok = parseExtraDigits(args[3]); !ok {
				fmt.Fprintf(os.Stderr, "error: parameter extraDigits must be in [0..8]\n\n")
				usage(appName)
				return exitUsage
			}
		}
		runner.ExtraDigits = extraDigits
		runner.XYZ = strings.Contains(cmd, "XYZ")

		random := strings.HasPrefix(cmd, "-r") || strings.HasPrefix(cmd, "--random")
		if random {
			var seed int64
			if len(args) == 5 {
				seed, err = strconv.ParseInt(args[4], 10, 64)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: seed must be an integer\n\n")
					usage(appName)
					return exitUsage
				}
			}
			slog.Info("generating random corpus", "points", n, "seed", seed, "strict", strict)
			if _, err := runner.RunRandom(n, seed); err != nil {
				return exitCode(err)
			}
		} else {
			slog.Info("generating grid corpus", "points", n, "strict", strict)
			if _, err := runner.RunGrid(n); err != nil {
				return exitCode(err)
			}
		}

	default:
		usage(appName)
		return exitUsage
	}
	return exitOK
}

// encodeExtraDigits parses the digit suffix of an encode mode flag:
// "-e" and "--encode" mean 0, "-e3" and "--encode3" mean 3.
func encodeExtraDigits(cmd string) (int, bool) {
	rest, ok := strings.CutPrefix(cmd, "--encode")
	if !ok {
		rest, ok = strings.CutPrefix(cmd, "-e")
	}
	if !ok {
		return 0, false
	}
	if rest == "" {
		return 0, true
	}
	return parseExtraDigits(rest)
}

func parseExtraDigits(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 8 {
		return 0, false
	}
	return n, true
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// exitCode classifies a runner error: self-check failures are internal
// errors, everything else is an input error.
func exitCode(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var selfCheck *geocorpus.SelfCheckError
	if errors.As(err, &selfCheck) {
		return exitInternal
	}
	return exitUsage
}
