package worklist

// Partition splits items into count contiguous shards. Every shard receives
// floor(N/count) items; the remainder is folded into the last shard. The
// shards reference the input slice, cover it exactly once, and preserve order.
// count must be positive and is clamped to len(items) so no shard is empty
// (callers with zero items get zero shards).
func Partition(items []Item, count int) [][]Item {
	if count < 1 || len(items) == 0 {
		return nil
	}
	if count > len(items) {
		count = len(items)
	}

	size := len(items) / count
	shards := make([][]Item, count)
	for i := 0; i < count; i++ {
		start := i * size
		end := start + size
		if i == count-1 {
			end = len(items)
		}
		shards[i] = items[start:end:end]
	}
	return shards
}
