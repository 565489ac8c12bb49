package shared

// Listing endpoints accept limit/offset query parameters; these bounds keep a
// single request from dragging the whole table across the wire.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ClampLimit normalises a caller-supplied page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ClampOffset guards against negative offsets.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
