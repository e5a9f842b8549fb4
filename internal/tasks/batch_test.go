package tasks

import (
	"reflect"
	"testing"
)

func TestBatch(t *testing.T) {
	tc := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{name: "empty", items: nil, size: 4, want: nil},
		{name: "smaller than batch", items: []int{1, 2}, size: 4, want: [][]int{{1, 2}}},
		{name: "exact multiple", items: []int{1, 2, 3, 4}, size: 2, want: [][]int{{1, 2}, {3, 4}}},
		{name: "ten by four", items: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, size: 4, want: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9}}},
		{name: "size one", items: []int{1, 2, 3}, size: 1, want: [][]int{{1}, {2}, {3}}},
		{name: "invalid size", items: []int{1, 2, 3}, size: 0, want: [][]int{{1, 2, 3}}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Batch(tt.items, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Batch() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("appending to a batch does not clobber the next", func(t *testing.T) {
		items := []int{1, 2, 3, 4}
		batches := Batch(items, 2)
		_ = append(batches[0], 99)
		if batches[1][0] != 3 {
			t.Errorf("expected second batch to be untouched, got %v", batches[1])
		}
	})
}
