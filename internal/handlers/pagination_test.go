package handlers

import "testing"

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, limit)
	}

	for _, bad := range [][2]string{{"0", "10"}, {"one", "10"}, {"1", "-5"}, {"1", "x"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", bad[0], bad[1])
		}
	}
}
