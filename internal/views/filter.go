package views

import (
	"sort"
	"strings"

	"qatrack/backend"
)

// StatusAll is the status filter that passes every case
const StatusAll = "all"

// Filter returns the cases of suiteID whose status matches statusFilter.
// StatusAll passes every status; any other value must match exactly.
func Filter(cases []backend.TestCase, suiteID, statusFilter string) []backend.TestCase {
	var filtered []backend.TestCase

	for _, c := range cases {
		if c.SuiteID != suiteID {
			continue
		}
		if statusFilter != StatusAll && string(c.Status) != statusFilter {
			continue
		}
		filtered = append(filtered, c)
	}

	return filtered
}

// statusRank orders statuses as listed in backend.AllStatuses
func statusRank(s backend.Status) int {
	for i, status := range backend.AllStatuses {
		if status == s {
			return i
		}
	}
	return len(backend.AllStatuses)
}

// ApplySort sorts cases in place by one of SortFields. The sort is stable so
// cases with equal keys keep their creation order.
func ApplySort(cases []backend.TestCase, sortBy string, sortOrder string) {
	if sortBy == "" {
		return
	}

	descending := strings.EqualFold(sortOrder, "desc")

	sort.SliceStable(cases, func(i, j int) bool {
		a, b := cases[i], cases[j]
		if descending {
			a, b = b, a
		}

		switch sortBy {
		case "test_id":
			return a.TestID < b.TestID
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "status":
			return statusRank(a.Status) < statusRank(b.Status)
		case "created":
			return a.Created.Before(b.Created)
		case "modified":
			return a.Modified.Before(b.Modified)
		default:
			return false
		}
	})
}
