package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{0, 0, 1, DefaultLimit, 0},
		{-3, -1, 1, DefaultLimit, 0},
		{2, 25, 2, 25, 25},
		{5, 1000, 5, MaxLimit, 400},
	}
	for _, c := range cases {
		p := Normalize(c.page, c.limit)
		if p.Page != c.wantPage || p.Limit != c.wantLimit || p.Offset != c.wantOffset {
			t.Errorf("Normalize(%d, %d) = {%d %d %d}, want {%d %d %d}",
				c.page, c.limit, p.Page, p.Limit, p.Offset, c.wantPage, c.wantLimit, c.wantOffset)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 25, 4},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Normalize(3, 20), 45)
	if meta.Page != 3 || meta.Limit != 20 || meta.Total != 45 || meta.TotalPages != 3 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}
