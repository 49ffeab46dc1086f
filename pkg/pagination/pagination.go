package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds limit/offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Normalize returns a copy with both fields clamped.
func (p Params) Normalize() Params {
	return Params{
		Limit:  NormalizeLimit(p.Limit),
		Offset: NormalizeOffset(p.Offset),
	}
}
