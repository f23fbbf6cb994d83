package analytics

import (
	"reflect"
	"testing"
)

func ev(logID string, success bool) ScanEvent {
	return ScanEvent{LogID: logID, Success: FlexBool(success)}
}

func TestBucketizeScenario(t *testing.T) {
	events := []ScanEvent{
		ev("090000", true),
		ev("093000", false),
		ev("095900", true),
	}
	buckets, dropped := Bucketize(events, 30)
	if dropped != 0 {
		t.Fatalf("expected 0 dropped, got %d", dropped)
	}
	// 093000 sits exactly on the 09:30 boundary and belongs to the
	// bucket it starts.
	want := []TimeBucket{
		{Time: "09:00", SuccessCount: 1, FailCount: 0, Total: 1},
		{Time: "09:30", SuccessCount: 1, FailCount: 1, Total: 2},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("unexpected buckets: %#v", buckets)
	}
}

func TestBucketizeDenseSpan(t *testing.T) {
	// 08:05 and 10:55 with an empty stretch between them.
	events := []ScanEvent{ev("080500", true), ev("105500", false)}
	for _, iv := range Intervals {
		buckets, _ := Bucketize(events, iv)
		start := (8*60 + 5) / iv * iv
		end := (10*60 + 55) / iv * iv
		wantLen := (end-start)/iv + 1
		if len(buckets) != wantLen {
			t.Fatalf("interval %d: expected %d buckets, got %d", iv, wantLen, len(buckets))
		}
		sum := 0
		for _, b := range buckets {
			if b.Total != b.SuccessCount+b.FailCount {
				t.Fatalf("interval %d: total invariant broken in %+v", iv, b)
			}
			sum += b.Total
		}
		if sum != len(events) {
			t.Fatalf("interval %d: expected sum(total)=%d, got %d", iv, len(events), sum)
		}
	}
}

func TestBucketizeSingleEvent(t *testing.T) {
	buckets, _ := Bucketize([]ScanEvent{ev("143000", true)}, 60)
	if len(buckets) != 1 {
		t.Fatalf("expected exactly one bucket, got %d", len(buckets))
	}
	if buckets[0].Time != "14:00" {
		t.Fatalf("expected 14:00, got %s", buckets[0].Time)
	}
}

func TestBucketizeBoundaryFloors(t *testing.T) {
	// An event exactly on a boundary belongs to the bucket it starts.
	buckets, _ := Bucketize([]ScanEvent{ev("093000", true)}, 30)
	if len(buckets) != 1 || buckets[0].Time != "09:30" {
		t.Fatalf("expected single 09:30 bucket, got %#v", buckets)
	}
}

func TestBucketizeShortIDZeroPadded(t *testing.T) {
	// "930" pads to "000930": 00 hours, 09 minutes.
	buckets, dropped := Bucketize([]ScanEvent{ev("930", true)}, 10)
	if dropped != 0 {
		t.Fatalf("expected 0 dropped, got %d", dropped)
	}
	if len(buckets) != 1 || buckets[0].Time != "00:00" {
		t.Fatalf("unexpected buckets: %#v", buckets)
	}
}

func TestBucketizeMalformedDropped(t *testing.T) {
	events := []ScanEvent{
		ev("0x3000", true),
		ev("ABCDEF", true),
		ev("120000", false),
	}
	buckets, dropped := Bucketize(events, 60)
	if dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	if len(buckets) != 1 || buckets[0].Total != 1 || buckets[0].FailCount != 1 {
		t.Fatalf("unexpected buckets: %#v", buckets)
	}
}

func TestBucketizeEmptySet(t *testing.T) {
	buckets, dropped := Bucketize(nil, 30)
	if len(buckets) != 0 || dropped != 0 {
		t.Fatalf("expected empty series, got %#v (dropped %d)", buckets, dropped)
	}

	buckets, dropped = Bucketize([]ScanEvent{ev("zzzzzz", true)}, 30)
	if len(buckets) != 0 || dropped != 1 {
		t.Fatalf("expected empty series with 1 dropped, got %#v (dropped %d)", buckets, dropped)
	}
}

func TestBucketizeIdempotent(t *testing.T) {
	events := []ScanEvent{ev("091500", true), ev("101000", false), ev("bad", true)}
	first, d1 := Bucketize(events, 10)
	second, d2 := Bucketize(events, 10)
	if !reflect.DeepEqual(first, second) || d1 != d2 {
		t.Fatalf("bucketize is not idempotent: %#v vs %#v", first, second)
	}
}
