package views

import (
	"fmt"
	"testing"

	"qatrack/backend"
)

func numbered(n int) []backend.TestCase {
	cases := make([]backend.TestCase, n)
	for i := range cases {
		cases[i] = backend.TestCase{ID: fmt.Sprint(i + 1), SuiteID: "s"}
	}
	return cases
}

func TestPaginate(t *testing.T) {
	cases := numbered(7)

	tests := []struct {
		name    string
		size    int
		page    int
		wantIDs []string
		wantNil bool
	}{
		{"first page", 3, 1, []string{"1", "2", "3"}, false},
		{"last partial page", 3, 3, []string{"7"}, false},
		{"past the end is empty", 3, 4, nil, false},
		{"page zero", 3, 0, nil, true},
		{"zero size", 0, 1, nil, true},
		{"one big page", 10, 1, []string{"1", "2", "3", "4", "5", "6", "7"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(cases, tt.size, tt.page)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", ids(got))
				}
				return
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !equalIDs(ids(got), tt.wantIDs) {
				t.Errorf("Paginate(%d, %d) = %v, want %v", tt.size, tt.page, ids(got), tt.wantIDs)
			}
		})
	}
}

func TestTotalPagesAndClamp(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}

	clamps := []struct {
		page, total, want int
	}{
		{0, 3, 1},
		{2, 3, 2},
		{9, 3, 3},
		{4, 0, 1},
	}
	for _, tt := range clamps {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}
