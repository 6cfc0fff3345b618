package matchcache

import (
	"context"
	"errors"
	"testing"
)

func TestWhileBusyStopsOnOrdinaryErrors(t *testing.T) {
	calls := 0
	boom := errors.New("constraint failed")
	err := whileBusy(context.Background(), func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err=%v calls=%d, want boom after one call", err, calls)
	}
	if isBusy(boom) || isBusy(nil) {
		t.Fatal("plain errors are not busy errors")
	}
}
