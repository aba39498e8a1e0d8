package helper

import "testing"

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{
		"created_at": "payment_created_at",
		"amount":     "payment_amount",
	}

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"whitelisted asc", Params{SortBy: "amount", SortOrder: "asc"}, "payment_amount ASC"},
		{"whitelisted desc", Params{SortBy: "created_at", SortOrder: "desc"}, "payment_created_at DESC"},
		{"unknown column falls back", Params{SortBy: "payment_user_id; DROP TABLE payments", SortOrder: "desc"}, "payment_created_at DESC"},
		{"empty sort falls back", Params{SortOrder: "desc"}, "payment_created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.params.OrderClause(allowed, "payment_created_at")
			if got != tt.want {
				t.Errorf("OrderClause = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first of many", Params{Page: 1, PerPage: 10}, 35, 4, true, false},
		{"middle", Params{Page: 2, PerPage: 10}, 35, 4, true, true},
		{"last", Params{Page: 4, PerPage: 10}, 35, 4, false, true},
		{"empty result", Params{Page: 1, PerPage: 10}, 0, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPagination(tt.params, tt.total)
			if got.TotalPages != tt.wantPages {
				t.Errorf("total_pages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasNext != tt.wantNext {
				t.Errorf("has_next = %v, want %v", got.HasNext, tt.wantNext)
			}
			if got.HasPrev != tt.wantPrev {
				t.Errorf("has_prev = %v, want %v", got.HasPrev, tt.wantPrev)
			}
		})
	}
}
