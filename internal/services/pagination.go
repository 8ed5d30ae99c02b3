package services

import "math"

// normalizePage clamps page to [1, math.MaxInt32/maxLimit] and limit to [1, maxLimit],
// using def for a missing limit. The page cap keeps page*limit inside int32.
func normalizePage(page, limit, def, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32 / maxLimit; page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func skipFor(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}
