package analytics

import (
	"sort"
	"strconv"
)

// Date resolution over the store's year/month/day key sets. Keys keep the
// raw, non-padded string form the devices write ("3", not "03"), so
// ordering is numeric, not lexicographic.

// SortDateKeys orders raw numeric key strings ascending. Non-numeric keys
// sort first so they never win a latest-key selection.
func SortDateKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return false
		case errB == nil:
			return true
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// ResolveKey selects the requested key when it is available, otherwise the
// most recent available one. ok=false means the scope holds no data at all;
// that is a valid empty state, not an error.
func ResolveKey(requested string, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	if requested != "" {
		for _, k := range available {
			if k == requested {
				return k, true
			}
		}
	}
	sorted := SortDateKeys(available)
	return sorted[len(sorted)-1], true
}
