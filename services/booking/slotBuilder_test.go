package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"sokoni/models"
)

func TestSlotPickerDiscardsSupersededResult(t *testing.T) {
	var p SlotPicker
	started := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		_, err := p.Select(context.Background(), func(ctx context.Context) (*models.SlotsResponse, error) {
			close(started)
			<-ctx.Done()
			return &models.SlotsResponse{Date: "2025-06-02"}, nil
		})
		firstDone <- err
	}()
	<-started

	resp, err := p.Select(context.Background(), func(context.Context) (*models.SlotsResponse, error) {
		return &models.SlotsResponse{Date: "2025-06-03"}, nil
	})
	if err != nil || resp.Date != "2025-06-03" {
		t.Fatalf("latest selection should win, got %+v, %v", resp, err)
	}

	select {
	case err := <-firstDone:
		if !errors.Is(err, ErrStaleSelection) {
			t.Fatalf("expected ErrStaleSelection, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("superseded query was not cancelled")
	}
	if p.Generation() != 2 {
		t.Fatalf("expected generation 2, got %d", p.Generation())
	}
}

func TestPickerRegistry(t *testing.T) {
	r := NewPickerRegistry(time.Minute)
	a := r.Picker(PickerKey("sess-1", "prov-1", "svc-1"))
	if r.Picker(PickerKey("sess-1", "prov-1", "svc-1")) != a {
		t.Fatal("expected the same picker for the same key")
	}
	if r.Picker(PickerKey("sess-2", "prov-1", "svc-1")) == a {
		t.Fatal("sessions must not share pickers")
	}
	if n := r.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh pickers swept: %d", n)
	}
	if n := r.Sweep(time.Now().Add(2 * time.Minute)); n != 2 || r.Len() != 0 {
		t.Fatalf("expected both idle pickers swept, removed %d, left %d", n, r.Len())
	}
}
