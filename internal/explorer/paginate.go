package explorer

// PageSize is the fixed number of items per page.
const PageSize = 25

// TotalPages is ceil(n/size), never less than 1 so that an empty listing
// still has a valid "page 1 of 1".
func TotalPages(n, size int) int {
	if size < 1 {
		size = PageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-indexed page of seq and the total page count. Pages
// outside 1..totalPages yield an empty slice. The returned slice shares
// storage with seq but is capacity-clipped.
func Paginate[T any](seq []T, page, size int) ([]T, int) {
	if size < 1 {
		size = PageSize
	}
	total := TotalPages(len(seq), size)

	if page < 1 || page > total {
		return []T{}, total
	}

	start := (page - 1) * size
	if start >= len(seq) {
		return []T{}, total
	}
	end := min(start+size, len(seq))

	return seq[start:end:end], total
}

// ClampPage forces page into 1..TotalPages(n, size).
func ClampPage(page, n, size int) int {
	return max(1, min(page, TotalPages(n, size)))
}
