package analytics

import (
	"reflect"
	"testing"
)

func TestSortDateKeysNumeric(t *testing.T) {
	got := SortDateKeys([]string{"10", "2", "1", "11", "3"})
	want := []string{"1", "2", "3", "10", "11"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %#v", got)
	}
}

func TestResolveKeyRequestedAvailable(t *testing.T) {
	got, ok := ResolveKey("3", []string{"1", "3", "12"})
	if !ok || got != "3" {
		t.Fatalf("expected requested key 3, got %q ok=%v", got, ok)
	}
}

func TestResolveKeyFallsBackToLatest(t *testing.T) {
	got, ok := ResolveKey("7", []string{"1", "3", "12"})
	if !ok || got != "12" {
		t.Fatalf("expected latest key 12, got %q ok=%v", got, ok)
	}

	got, ok = ResolveKey("", []string{"9", "10"})
	if !ok || got != "10" {
		t.Fatalf("expected latest key 10, got %q ok=%v", got, ok)
	}
}

func TestResolveKeyEmptyScope(t *testing.T) {
	if _, ok := ResolveKey("5", nil); ok {
		t.Fatal("expected ok=false for empty scope")
	}
}
