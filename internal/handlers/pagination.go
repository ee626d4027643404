package handlers

import (
	"fmt"
	"strconv"
)

// parsePaginationParams resolves optional page/limit query values for
// catalog listings. Missing values fall back to the first page of 20.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page value %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit value %q", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}
