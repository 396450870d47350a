package archive

import "fmt"

// Level is the speed/size trade-off for the single-file codecs:
// 1 is fastest/largest, 9 is slowest/smallest.
type Level int

const (
	MinLevel     Level = 1
	DefaultLevel Level = 6
	MaxLevel     Level = 9
)

// ParseLevel validates a compression level from the command line. Values
// outside 1-9 are rejected here, before any component logic runs.
func ParseLevel(n int) (Level, error) {
	if n < int(MinLevel) || n > int(MaxLevel) {
		return 0, fmt.Errorf("invalid compression level %d: must be between %d and %d", n, MinLevel, MaxLevel)
	}
	return Level(n), nil
}
