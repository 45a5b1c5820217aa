// Package zone implements the Zone Controller: the single-threaded actor
// that owns one RFSS's event queue, active calls map, call_busy_queue and
// event counter, and drives registration, affiliation, call setup/teardown
// and preemption (spec §4.6, §4.7). Grounded end-to-end on
// original_source/controller.py's ZoneController.
package zone

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/alloc"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/rf"
	"github.com/trunkradio/radiosim/internal/signaling"
	"github.com/trunkradio/radiosim/internal/simtime"
	"github.com/trunkradio/radiosim/internal/units"
)

// Controller is the actor for one RFSS (zone). It is not safe for
// concurrent use — per spec §5, one goroutine drives one zone.
type Controller struct {
	wacn *model.WACN
	zone *model.RFSS

	clock *simtime.Clock
	bus   *simtime.EventBus

	allocator *alloc.Allocator
	scanner   *rf.Scanner
	place     rf.Rand

	activeCalls map[int]*model.RadioCall
	busyQueue   busyQueue
	nextCallID  int

	log zerolog.Logger
}

// New constructs a Controller for zoneID within wacn. placementRand feeds
// the random-point-in-area sampler used for a unit's initial location.
func New(zoneID int, wacn *model.WACN, allocator *alloc.Allocator, scanner *rf.Scanner, placementRand rf.Rand, log zerolog.Logger) (*Controller, error) {
	z, ok := wacn.Zones[zoneID]
	if !ok {
		return nil, fmt.Errorf("zone %d not found in wacn %d", zoneID, wacn.ID)
	}
	c := &Controller{
		wacn:        wacn,
		zone:        z,
		clock:       simtime.NewClock(log),
		bus:         simtime.NewEventBus(),
		allocator:   allocator,
		scanner:     scanner,
		place:       placementRand,
		activeCalls: make(map[int]*model.RadioCall),
		nextCallID:  1,
		log:         log.With().Int("zone_id", zoneID).Str("component", "zone").Logger(),
	}
	c.registerHandlers()
	return c, nil
}

// ZoneID returns the id of the RFSS this controller owns.
func (c *Controller) ZoneID() int { return c.zone.ID }

// Now returns the controller's current virtual time in seconds.
func (c *Controller) Now() float64 { return c.clock.Now() }

// Schedule enqueues event for dispatch after delay seconds.
func (c *Controller) Schedule(delay float64, event signaling.Event) error {
	return c.clock.Schedule(delay, event)
}

// Publish enqueues event for immediate (zero-delay) dispatch.
func (c *Controller) Publish(event signaling.Event) error {
	return c.clock.Publish(event)
}

// Tap registers handler to observe every event dispatched in this zone,
// after domain handlers have run. Used by internal/eventsink to forward
// activity to an external publish sink without coupling the zone to it.
func (c *Controller) Tap(handler func(signaling.Event)) {
	c.bus.Tap(handler)
}

// Tick advances virtual time by delta, dispatching every event now due, and
// sweeps the call_busy_queue once afterward.
func (c *Controller) Tick(delta float64) {
	c.clock.Tick(delta, c.countDispatch)
	c.serviceBlockedQueue()
	c.refreshGauges()
}

// ActiveCall looks up a call by id.
func (c *Controller) ActiveCall(callID int) (*model.RadioCall, bool) {
	call, ok := c.activeCalls[callID]
	return call, ok
}

// Unit looks up a unit by id within this zone.
func (c *Controller) Unit(unitID int) (*model.Unit, bool) {
	u, ok := c.zone.Units[unitID]
	return u, ok
}

// Site looks up a site by id within this zone.
func (c *Controller) Site(siteID int) (*model.Site, bool) {
	s, ok := c.zone.Sites[siteID]
	return s, ok
}

// Units returns every unit (and console) owned by this zone, for
// introspection. The returned slice is a snapshot, not a live view.
func (c *Controller) Units() []*model.Unit {
	out := make([]*model.Unit, 0, len(c.zone.Units))
	for _, u := range c.zone.Units {
		out = append(out, u)
	}
	return out
}

// ActiveCalls returns every call currently tracked by this zone (active or
// queued), for introspection. The returned slice is a snapshot.
func (c *Controller) ActiveCalls() []*model.RadioCall {
	out := make([]*model.RadioCall, 0, len(c.activeCalls))
	for _, call := range c.activeCalls {
		out = append(out, call)
	}
	return out
}

func (c *Controller) registerHandlers() {
	simtime.Subscribe(c.bus, c.handleUnitPowerOnCommand)
	simtime.Subscribe(c.bus, c.handleUnitUpdateLocationCommand)
	simtime.Subscribe(c.bus, c.handleUnitScanForSitesCommand)
	simtime.Subscribe(c.bus, c.handleUnitRegistrationRequest)
	simtime.Subscribe(c.bus, c.handleUnitRegistrationResponse)
	simtime.Subscribe(c.bus, c.handleGroupAffiliationRequest)
	simtime.Subscribe(c.bus, c.handleGroupAffiliationResponse)
	simtime.Subscribe(c.bus, c.handleUnitInitiateCallCommand)
	simtime.Subscribe(c.bus, c.handleGroupVoiceServiceRequest)
	simtime.Subscribe(c.bus, c.handleGroupVoiceChannelGrant)
	simtime.Subscribe(c.bus, c.handleUnitEndTransmissionCommand)
	simtime.Subscribe(c.bus, c.handleCallTeardownCommand)
	simtime.Subscribe(c.bus, c.handleConsoleInitiateCallCommand)
	simtime.Subscribe(c.bus, c.handleUnitUnbanFromSiteCommand)
}

// QueueStatus is a structured introspection snapshot recovered from the
// source prototype's ZoneController.get_queue_status(): the next few
// scheduled events and the next few queued calls.
type QueueStatus struct {
	Now             float64
	NextEvents      []simtime.QueueEntry
	NextQueuedCalls []QueuedCallSummary
}

// QueuedCallSummary describes one entry waiting in the call_busy_queue.
type QueuedCallSummary struct {
	CallID      int
	TalkgroupID int
	Priority    model.EventPriority
	QueuedAt    float64
}

// QueueStatus reports the next 3 scheduled events and next 3 queued calls.
func (c *Controller) QueueStatus() QueueStatus {
	items := c.busyQueue.PeekN(3)
	calls := make([]QueuedCallSummary, 0, len(items))
	for _, it := range items {
		calls = append(calls, QueuedCallSummary{
			CallID: it.callID, TalkgroupID: it.talkgroupID,
			Priority: it.priority, QueuedAt: it.queuedAt,
		})
	}
	return QueueStatus{
		Now:             c.clock.Now(),
		NextEvents:      c.clock.PeekQueue(3),
		NextQueuedCalls: calls,
	}
}
