package datatable

// Paginate returns rows[(page-1)*size : page*size], clamped to the slice bounds.
// Pages are 1-indexed; a page past the end, a page below 1 or a size below 1
// yields an empty slice.
func Paginate[T any](rows []T, page, size int) []T {
	if page < 1 || size < 1 {
		return nil
	}
	if page > PageCount(len(rows), size) {
		return nil
	}
	start := (page - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageCount returns how many pages of the given size cover total rows. It is at
// least 1 so an empty table still has a first page.
func PageCount(total, size int) int {
	if size < 1 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}
