package views

import "qatrack/backend"

// Paginate returns page number page (1-based) of cases. It never clamps:
// a page past the end yields an empty slice, and page < 1 or pageSize < 1 yields nil.
func Paginate(cases []backend.TestCase, pageSize, page int) []backend.TestCase {
	if page < 1 || pageSize < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(cases) {
		return []backend.TestCase{}
	}
	end := start + pageSize
	if end > len(cases) {
		end = len(cases)
	}
	return cases[start:end]
}

// TotalPages returns how many pages n items fill. An empty list has one (empty) page.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, total]
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
