package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// Intervals lists the supported bucket widths in minutes.
var Intervals = []int{10, 30, 60}

// DefaultInterval is used when a request does not name a width.
const DefaultInterval = 30

// TimeBucket accumulates success/failure counts for one fixed-width
// interval of the day. Total always equals SuccessCount + FailCount.
type TimeBucket struct {
	Time         string `json:"time"`
	SuccessCount int    `json:"successCount"`
	FailCount    int    `json:"failCount"`
	Total        int    `json:"total"`
}

// ValidInterval reports whether w is a supported bucket width.
func ValidInterval(w int) bool {
	for _, iv := range Intervals {
		if iv == w {
			return true
		}
	}
	return false
}

// Bucketize groups events into dense interval buckets keyed by the HHMM
// fragment at the head of each logId. Buckets run from the floor of the
// earliest event's minute-of-day to the floor of the latest, one per
// interval step inclusive, so the chart has no x-axis gaps. Events whose
// logId holds no parseable timestamp are dropped and counted in the second
// return value. An empty result is not an error.
func Bucketize(events []ScanEvent, intervalMinutes int) ([]TimeBucket, int) {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultInterval
	}

	minutes := make([]int, 0, len(events))
	dropped := 0
	minMin, maxMin := -1, -1
	for _, e := range events {
		tm, ok := minuteOfDay(e.LogID)
		if !ok {
			dropped++
			minutes = append(minutes, -1)
			continue
		}
		minutes = append(minutes, tm)
		if minMin < 0 || tm < minMin {
			minMin = tm
		}
		if tm > maxMin {
			maxMin = tm
		}
	}

	if minMin < 0 {
		return []TimeBucket{}, dropped
	}

	start := minMin / intervalMinutes * intervalMinutes
	end := maxMin / intervalMinutes * intervalMinutes
	buckets := make([]TimeBucket, 0, (end-start)/intervalMinutes+1)
	for m := start; m <= end; m += intervalMinutes {
		buckets = append(buckets, TimeBucket{Time: fmt.Sprintf("%02d:%02d", m/60, m%60)})
	}

	for i, e := range events {
		tm := minutes[i]
		if tm < 0 {
			continue
		}
		idx := (tm/intervalMinutes*intervalMinutes - start) / intervalMinutes
		b := &buckets[idx]
		b.Total++
		if bool(e.Success) {
			b.SuccessCount++
		} else {
			b.FailCount++
		}
	}

	return buckets, dropped
}

// minuteOfDay parses the HHMM fragment at the head of a logId. The id is
// zero-padded on the left to six characters first, matching how the devices
// serialize the daily sequence.
func minuteOfDay(logID string) (int, bool) {
	id := logID
	if len(id) < 6 {
		id = strings.Repeat("0", 6-len(id)) + id
	}
	hours, err := strconv.Atoi(id[0:2])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(id[2:4])
	if err != nil {
		return 0, false
	}
	return hours*60 + mins, true
}
