package analytics

// FilterAll is the sentinel that bypasses a filter predicate.
const FilterAll = "all"

// Filter narrows events by user identity and action category. Matching is
// exact string equality; an absent field never matches a concrete value but
// always matches the "all" sentinel.
func Filter(events []ScanEvent, user string, action string) []ScanEvent {
	if user == FilterAll && action == FilterAll {
		out := make([]ScanEvent, len(events))
		copy(out, events)
		return out
	}

	out := make([]ScanEvent, 0, len(events))
	for _, e := range events {
		if user != FilterAll && e.UserID != user {
			continue
		}
		if action != FilterAll && e.Action() != action {
			continue
		}
		out = append(out, e)
	}
	return out
}

// DistinctUsers returns the sorted-insertion-order set of user ids present
// in events, skipping absent ids.
func DistinctUsers(events []ScanEvent) []string {
	return distinct(events, func(e ScanEvent) string { return e.UserID })
}

// DistinctActions returns the set of action categories present in events.
func DistinctActions(events []ScanEvent) []string {
	return distinct(events, func(e ScanEvent) string { return e.Action() })
}

func distinct(events []ScanEvent, key func(ScanEvent) string) []string {
	seen := make(map[string]bool, len(events))
	out := make([]string, 0, len(events))
	for _, e := range events {
		k := key(e)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
