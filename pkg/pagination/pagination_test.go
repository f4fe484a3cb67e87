package pagination

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		params    *PaginationParams
		want      []int
		totalPage int
		hasNext   bool
	}{
		{name: "first page", params: &PaginationParams{Page: 1, PerPage: 3}, want: []int{1, 2, 3}, totalPage: 3, hasNext: true},
		{name: "last partial page", params: &PaginationParams{Page: 3, PerPage: 3}, want: []int{7}, totalPage: 3, hasNext: false},
		{name: "past the end", params: &PaginationParams{Page: 9, PerPage: 3}, want: []int{}, totalPage: 3, hasNext: false},
		{name: "defaults", params: nil, want: items, totalPage: 1, hasNext: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.params)
			if len(got.Items) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got.Items)
			}
			for i := range tt.want {
				if got.Items[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got.Items)
				}
			}
			if got.Pagination.TotalPages != tt.totalPage || got.Pagination.HasNext != tt.hasNext {
				t.Fatalf("unexpected pagination %#v", got.Pagination)
			}
			if got.Pagination.Total != int64(len(items)) {
				t.Fatalf("expected total %d, got %d", len(items), got.Pagination.Total)
			}
		})
	}
}

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: -2, PerPage: 500}
	p.Validate()
	if p.Page != 1 || p.PerPage != 100 {
		t.Fatalf("unexpected params %#v", p)
	}
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	got := Paginate([]int{1, 2, 3}, &PaginationParams{Page: 92233720368547760, PerPage: 100})
	if len(got.Items) != 0 {
		t.Fatalf("expected empty page, got %v", got.Items)
	}
	if got.Pagination.CurrentPage != MaxPage || got.Pagination.HasNext {
		t.Fatalf("unexpected pagination %#v", got.Pagination)
	}
}

func TestPaginationParams_ValidateCapsPage(t *testing.T) {
	p := &PaginationParams{Page: MaxPage * 4, PerPage: 100}
	p.Validate()
	if p.Page != MaxPage {
		t.Fatalf("expected page capped at %d, got %d", MaxPage, p.Page)
	}
	if p.Offset() < 0 {
		t.Fatalf("offset overflowed: %d", p.Offset())
	}
}
