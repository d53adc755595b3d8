package pagination

import "testing"

func TestNewClampsValues(t *testing.T) {
	tests := []struct {
		page, limit       int
		wantPage, wantLim int
		wantOffset        int
	}{
		{1, 20, 1, 20, 0},
		{0, 0, 1, DefaultLimit, 0},
		{3, 500, 3, MaxLimit, 200},
		{2, 15, 2, 15, 15},
	}
	for _, tt := range tests {
		p := New(tt.page, tt.limit)
		if p.Page != tt.wantPage || p.Limit != tt.wantLim || p.Offset != tt.wantOffset {
			t.Errorf("New(%d, %d) = %+v", tt.page, tt.limit, p)
		}
	}
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(New(2, 10), 25)
	if m.TotalPages != 3 || !m.HasNext || !m.HasPrev {
		t.Errorf("meta = %+v", m)
	}

	m = GetMeta(New(1, 10), 0)
	if m.TotalPages != 0 || m.HasNext || m.HasPrev {
		t.Errorf("empty meta = %+v", m)
	}
}
