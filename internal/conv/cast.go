package conv

import "fmt"

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// OverflowError reports a value that does not fit the target type.
type OverflowError struct {
	Value  string
	Target string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %s cannot be converted to %s", e.Value, e.Target)
}

// Checked converts v to D, failing if the value changes in the process.
func Checked[D, S Integer](v S) (D, error) {
	d := D(v)
	if S(d) != v || (d < 0) != (v < 0) {
		var zero D
		return zero, &OverflowError{Value: fmt.Sprint(v), Target: fmt.Sprintf("%T", zero)}
	}
	return d, nil
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) { return Checked[uint32](v) }

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) { return Checked[uint64](v) }

// Uint32ToInt converts uint32 to int safely.
func Uint32ToInt(v uint32) (int, error) { return Checked[int](v) }

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) { return Checked[int](v) }
