package block

import (
	"math/big"
	"time"
)

// ConvertTimestamp turns a raw 64-bit "units since epoch" value into a
// wall-clock instant, per the interface's declared resolution and offset.
// Resolutions finer than a nanosecond are truncated (floor), which is the
// documented behaviour for tsresol values like 10 (meaning 10^10 units/s).
func ConvertTimestamp(raw uint64, tsResolUnits uint64, tsOffsetSeconds int64) time.Time {
	if tsResolUnits == 0 {
		tsResolUnits = 1_000_000
	}
	seconds := int64(raw/tsResolUnits) + tsOffsetSeconds
	sub := raw % tsResolUnits

	nanos := new(big.Int).Mul(new(big.Int).SetUint64(sub), big.NewInt(1_000_000_000))
	nanos.Div(nanos, new(big.Int).SetUint64(tsResolUnits))

	return time.Unix(seconds, nanos.Int64()).UTC()
}
