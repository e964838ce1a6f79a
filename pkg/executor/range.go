package executor

import (
	"fmt"
	"strconv"
	"strings"
)

// WaveRange restricts which planned waves a run executes. The zero
// value means "no restriction".
type WaveRange struct {
	From int
	To   int
}

// ParseWaveRange parses "3" or "1-3" into an inclusive range. An empty
// string yields the unrestricted zero range.
func ParseWaveRange(s string) (WaveRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WaveRange{}, nil
	}

	if from, to, ok := strings.Cut(s, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return WaveRange{}, fmt.Errorf("invalid wave range %q: %w", s, err)
		}

		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return WaveRange{}, fmt.Errorf("invalid wave range %q: %w", s, err)
		}

		if start < 1 || end < start {
			return WaveRange{}, fmt.Errorf("invalid wave range %q: bounds must satisfy 1 <= from <= to", s)
		}

		return WaveRange{From: start, To: end}, nil
	}

	single, err := strconv.Atoi(s)
	if err != nil {
		return WaveRange{}, fmt.Errorf("invalid wave range %q: %w", s, err)
	}

	if single < 1 {
		return WaveRange{}, fmt.Errorf("invalid wave range %q: wave numbers start at 1", s)
	}

	return WaveRange{From: single, To: single}, nil
}

// Contains reports whether a wave number falls inside the range. The
// zero range contains everything.
func (r WaveRange) Contains(number int) bool {
	if r.From == 0 && r.To == 0 {
		return true
	}

	return number >= r.From && number <= r.To
}
