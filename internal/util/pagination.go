package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns 1-based page/perpage query values into an offset/limit
// pair. Out-of-range pages are not an error here: a too-large offset simply
// yields an empty result from the database.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}
