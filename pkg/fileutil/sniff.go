package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const sniffSampleSize = 1 << 20 // 1MiB

// ErrNoDelimiter is returned when no consistent field delimiter can be inferred
var ErrNoDelimiter = errors.New("could not determine delimiter")

// delimiterCandidates in order of preference when statistics tie
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// delimiterStats summarises how often a delimiter occurs per line
type delimiterStats struct {
	delimiter rune
	min       int
	mean      float64
	stddev    float64
}

// DetectDelimiter infers the field delimiter of the file at path
func DetectDelimiter(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening file for delimiter detection: %w", err)
	}
	defer f.Close()

	return SniffDelimiter(f)
}

// SniffDelimiter reads a sample of in and returns the candidate delimiter that
// occurs on every line with the most consistent per-line count
func SniffDelimiter(in io.Reader) (rune, error) {
	sample, err := readSample(in)
	if err != nil {
		return 0, err
	}
	if len(sample) == 0 {
		return 0, fmt.Errorf("%w: empty sample", ErrNoDelimiter)
	}

	lines := bytes.Split(bytes.TrimSuffix(sample, []byte("\n")), []byte("\n"))

	found := make(map[rune]delimiterStats, len(delimiterCandidates))
	for _, candidate := range delimiterCandidates {
		found[candidate] = delimiterLineStats(lines, candidate)
	}

	best, ok := pickDelimiter(found)
	if !ok {
		return 0, fmt.Errorf("%w: no candidate occurs on every line", ErrNoDelimiter)
	}

	return best, nil
}

func pickDelimiter(found map[rune]delimiterStats) (rune, bool) {
	var best delimiterStats
	var ok bool

	for _, candidate := range delimiterCandidates {
		stats, present := found[candidate]
		if !present || stats.min <= 0 {
			continue
		}

		if !ok || stats.stddev < best.stddev ||
			(stats.stddev == best.stddev && stats.mean > best.mean) {
			best = stats
			ok = true
		}
	}

	return best.delimiter, ok
}

// delimiterLineStats counts delimiter occurrences outside double quotes on every line
func delimiterLineStats(lines [][]byte, delimiter rune) delimiterStats {
	stats := delimiterStats{delimiter: delimiter, min: -1}
	if len(lines) == 0 {
		return stats
	}

	counts := make([]int, len(lines))
	var sum int
	for i, line := range lines {
		counts[i] = countUnquoted(line, byte(delimiter))
		sum += counts[i]
		if stats.min < 0 || counts[i] < stats.min {
			stats.min = counts[i]
		}
	}

	stats.mean = float64(sum) / float64(len(lines))

	var variance float64
	for _, c := range counts {
		d := float64(c) - stats.mean
		variance += d * d
	}
	stats.stddev = math.Sqrt(variance / float64(len(lines)))

	return stats
}

// countUnquoted counts delim in line, ignoring bytes inside "quoted" fields.
// A doubled quote inside a quoted field toggles twice and stays quoted.
func countUnquoted(line []byte, delim byte) int {
	var count int
	quoted := false
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
		case c == delim && !quoted:
			count++
		}
	}
	return count
}

// readSample reads up to sniffSampleSize bytes, drops a trailing partial line
// when the sample was truncated and removes blank lines
func readSample(in io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(in, sniffSampleSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading delimiter sample: %w", err)
	}

	if len(buf) > sniffSampleSize {
		buf = buf[:sniffSampleSize]
		if idx := bytes.LastIndexByte(buf, '\n'); idx > 0 {
			buf = buf[:idx]
		}
	}

	var sample bytes.Buffer
	for _, line := range bytes.Split(buf, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		sample.Write(line)
		sample.WriteByte('\n')
	}

	return sample.Bytes(), nil
}
