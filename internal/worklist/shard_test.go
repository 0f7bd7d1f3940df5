package worklist_test

import (
	"fmt"
	"testing"

	"semtok/internal/worklist"
)

func makeItems(n int) []worklist.Item {
	items := make([]worklist.Item, n)
	for i := range items {
		items[i] = worklist.Item{
			Speaker:  "spk",
			FileName: fmt.Sprintf("%04d.wav", i),
			Group:    "g",
		}
	}
	return items
}

func TestPartitionCoversListExactlyOnce(t *testing.T) {
	cases := []struct {
		n, d int
	}{
		{10, 2},
		{10, 3},
		{300, 4},
		{7, 7},
		{1, 1},
		{5, 2},
	}
	for _, tc := range cases {
		items := makeItems(tc.n)
		shards := worklist.Partition(items, tc.d)

		want := tc.d
		if want > tc.n {
			want = tc.n
		}
		if len(shards) != want {
			t.Fatalf("Partition(%d items, %d): got %d shards, want %d", tc.n, tc.d, len(shards), want)
		}

		size := tc.n / want
		var flat []worklist.Item
		for i, shard := range shards {
			if i < len(shards)-1 && len(shard) != size {
				t.Fatalf("Partition(%d, %d): shard %d has %d items, want %d", tc.n, tc.d, i, len(shard), size)
			}
			flat = append(flat, shard...)
		}
		last := shards[len(shards)-1]
		if wantLast := size + tc.n%want; len(last) != wantLast {
			t.Fatalf("Partition(%d, %d): last shard has %d items, want %d", tc.n, tc.d, len(last), wantLast)
		}

		if len(flat) != tc.n {
			t.Fatalf("Partition(%d, %d): union has %d items", tc.n, tc.d, len(flat))
		}
		for i := range flat {
			if flat[i] != items[i] {
				t.Fatalf("Partition(%d, %d): item %d reordered: got %v want %v", tc.n, tc.d, i, flat[i], items[i])
			}
		}
	}
}

func TestPartitionClampsDeviceCount(t *testing.T) {
	shards := worklist.Partition(makeItems(3), 8)
	if len(shards) != 3 {
		t.Fatalf("expected clamp to 3 shards, got %d", len(shards))
	}
	for i, shard := range shards {
		if len(shard) != 1 {
			t.Fatalf("shard %d has %d items, want 1", i, len(shard))
		}
	}
}

func TestPartitionDegenerateInputs(t *testing.T) {
	if got := worklist.Partition(nil, 4); got != nil {
		t.Fatalf("expected nil shards for empty list, got %v", got)
	}
	if got := worklist.Partition(makeItems(4), 0); got != nil {
		t.Fatalf("expected nil shards for zero devices, got %v", got)
	}
}
