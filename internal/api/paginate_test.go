package api

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 5},
		{"?page=3", 3, 5},
		{"?page=2&per_page=10", 2, 10},
		{"?page=0", 1, 5},
		{"?page=-1&per_page=-2", 1, 5},
		{"?page=abc&per_page=xyz", 1, 5},
		{"?per_page=500", 1, 100},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/bookmarks"+tt.query, nil)
		page, perPage := parsePagination(r)
		if page != tt.wantPage || perPage != tt.wantPerPage {
			t.Errorf("parsePagination(%q) = (%d, %d), want (%d, %d)",
				tt.query, page, perPage, tt.wantPage, tt.wantPerPage)
		}
	}
}

func TestBuildMeta(t *testing.T) {
	t.Run("first of three pages", func(t *testing.T) {
		m := buildMeta(1, 5, 12)
		if m.Pages != 3 || m.TotalCount != 12 {
			t.Errorf("pages=%d total=%d, want 3/12", m.Pages, m.TotalCount)
		}
		if !m.HasNext || m.HasPrev {
			t.Errorf("has_next=%v has_prev=%v, want true/false", m.HasNext, m.HasPrev)
		}
		if m.NextPage == nil || *m.NextPage != 2 {
			t.Errorf("next_page = %v, want 2", m.NextPage)
		}
		if m.Prev != nil {
			t.Errorf("prev = %v, want nil", *m.Prev)
		}
	})

	t.Run("last page", func(t *testing.T) {
		m := buildMeta(3, 5, 12)
		if m.HasNext || !m.HasPrev {
			t.Errorf("has_next=%v has_prev=%v, want false/true", m.HasNext, m.HasPrev)
		}
		if m.Prev == nil || *m.Prev != 2 {
			t.Errorf("prev = %v, want 2", m.Prev)
		}
		if m.NextPage != nil {
			t.Errorf("next_page = %v, want nil", *m.NextPage)
		}
	})

	t.Run("out of range page", func(t *testing.T) {
		m := buildMeta(7, 5, 12)
		if m.HasNext {
			t.Error("has_next = true, want false")
		}
		if m.Page != 7 || m.Pages != 3 {
			t.Errorf("page=%d pages=%d, want 7/3", m.Page, m.Pages)
		}
	})

	t.Run("empty store", func(t *testing.T) {
		m := buildMeta(1, 5, 0)
		if m.Pages != 0 || m.HasNext || m.HasPrev {
			t.Errorf("meta = %+v, want zero pages and no neighbors", m)
		}
	})
}
