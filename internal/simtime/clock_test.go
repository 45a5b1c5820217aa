package simtime

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
)

func TestClockSchedule(t *testing.T) {
	t.Run("negative delay is rejected without panicking", func(t *testing.T) {
		c := NewClock(zerolog.Nop())
		err := c.Schedule(-1, signaling.NewUnitPowerOnCommand(1))
		if err == nil {
			t.Fatal("expected an error")
		}
		if c.Pending() != 0 {
			t.Fatalf("pending = %d, want 0", c.Pending())
		}
	})

	t.Run("zero delay still enqueues for the current tick", func(t *testing.T) {
		c := NewClock(zerolog.Nop())
		if err := c.Publish(signaling.NewUnitPowerOnCommand(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Pending() != 1 {
			t.Fatalf("pending = %d, want 1", c.Pending())
		}
	})
}

func TestClockTickOrdering(t *testing.T) {
	t.Run("dispatches in (time, priority, sequence) order", func(t *testing.T) {
		c := NewClock(zerolog.Nop())
		// Same execution time, different priority: lower priority value first.
		c.Schedule(5, signaling.NewCallTeardownCommand(1, model.PriorityLow))
		c.Schedule(5, signaling.NewCallTeardownCommand(2, model.PriorityEmergency))
		// Earlier execution time dispatches before either, despite later insertion.
		c.Schedule(1, signaling.NewCallTeardownCommand(3, model.PriorityDefault))
		// Same time+priority as call 2: sequence (insertion order) breaks the tie.
		c.Schedule(5, signaling.NewCallTeardownCommand(4, model.PriorityEmergency))

		var order []int
		c.Tick(10, func(ev signaling.Event) {
			order = append(order, ev.(signaling.CallTeardownCommand).CallID)
		})

		want := []int{3, 2, 4, 1}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order = %v, want %v", order, want)
			}
		}
	})

	t.Run("events scheduled with delay beyond the tick wait for a later tick", func(t *testing.T) {
		c := NewClock(zerolog.Nop())
		c.Schedule(100, signaling.NewUnitPowerOnCommand(1))

		dispatched := 0
		c.Tick(10, func(signaling.Event) { dispatched++ })
		if dispatched != 0 {
			t.Fatalf("dispatched = %d, want 0", dispatched)
		}
		if c.Pending() != 1 {
			t.Fatalf("pending = %d, want 1", c.Pending())
		}

		c.Tick(100, func(signaling.Event) { dispatched++ })
		if dispatched != 1 {
			t.Fatalf("dispatched = %d, want 1", dispatched)
		}
	})

	t.Run("zero-delay events scheduled during dispatch run within the same tick", func(t *testing.T) {
		c := NewClock(zerolog.Nop())
		c.Publish(signaling.NewUnitPowerOnCommand(1))

		var seen []int
		c.Tick(0, func(ev signaling.Event) {
			cmd := ev.(signaling.UnitPowerOnCommand)
			seen = append(seen, cmd.UnitID)
			if cmd.UnitID == 1 {
				c.Publish(signaling.NewUnitPowerOnCommand(2))
			}
		})

		if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
			t.Fatalf("seen = %v, want [1 2]", seen)
		}
	})
}

func TestClockPeekQueue(t *testing.T) {
	c := NewClock(zerolog.Nop())
	c.Schedule(5, signaling.NewUnitPowerOnCommand(1))
	c.Schedule(1, signaling.NewUnitPowerOnCommand(2))

	entries := c.PeekQueue(10)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].ExecTime != 1 {
		t.Fatalf("entries[0].ExecTime = %v, want 1", entries[0].ExecTime)
	}
	// PeekQueue must not drain the real queue.
	if c.Pending() != 2 {
		t.Fatalf("pending after peek = %d, want 2", c.Pending())
	}
}
