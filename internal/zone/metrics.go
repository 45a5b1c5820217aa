package zone

import (
	"fmt"
	"strconv"

	"github.com/trunkradio/radiosim/internal/metrics"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
)

var allUnitStates = []model.UnitState{
	model.UnitPoweredOff,
	model.UnitSearchingForSite,
	model.UnitRegistering,
	model.UnitIdleRegistered,
	model.UnitAffiliating,
	model.UnitIdleAffiliated,
	model.UnitCallRequested,
	model.UnitInCall,
	model.UnitFailed,
}

func (c *Controller) zoneIDLabel() string { return strconv.Itoa(c.zone.ID) }

// refreshGauges recomputes every point-in-time prometheus gauge for this
// zone, called once per Tick so /metrics never shows a stale reading.
func (c *Controller) refreshGauges() {
	zoneID := c.zoneIDLabel()

	counts := make(map[model.UnitState]int, len(allUnitStates))
	for _, u := range c.zone.Units {
		counts[u.State]++
	}
	for _, state := range allUnitStates {
		metrics.UnitsByState.WithLabelValues(zoneID, state.String()).Set(float64(counts[state]))
	}

	active := 0
	for _, call := range c.activeCalls {
		if call.Status == model.CallActive {
			active++
		}
	}
	metrics.ActiveCalls.WithLabelValues(zoneID).Set(float64(active))
	metrics.QueuedCalls.WithLabelValues(zoneID).Set(float64(c.busyQueue.Len()))
	metrics.PendingEvents.WithLabelValues(zoneID).Set(float64(c.clock.Pending()))
}

// countDispatch increments EventsDispatchedTotal for one dispatched event,
// labeled by its concrete type, before handing it to the bus.
func (c *Controller) countDispatch(event signaling.Event) {
	metrics.EventsDispatchedTotal.WithLabelValues(c.zoneIDLabel(), fmt.Sprintf("%T", event)).Inc()
	c.bus.Publish(event)
}
