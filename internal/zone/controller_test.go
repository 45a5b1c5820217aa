package zone

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/alloc"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/rf"
	"github.com/trunkradio/radiosim/internal/signaling"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int     { return 0 }
func (zeroRand) Float64() float64 { return 0 }

// newTestController builds a single-zone WACN with one online site (one
// control channel, one FDMA voice channel) and one talkgroup, and a single
// powered-off, located unit ready to run the full registration/affiliation/
// call-setup pipeline.
func newTestController(t *testing.T) (*Controller, *model.Unit) {
	t.Helper()
	wacn := model.NewWACN(1, nil)
	z := model.NewRFSS(1, "z1", nil)
	wacn.Zones[1] = z

	site, err := model.NewSite(1, 1, "site1", model.AssignRotating, []model.Subsite{
		{ID: 1, Location: model.Coordinates{Latitude: 0, Longitude: 0}, OperatingRadiusKm: 50},
	})
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}
	site.Channels[1] = &model.Channel{ID: 1, Enabled: true, Control: true}
	site.Channels[2] = &model.Channel{ID: 2, Enabled: true, FDMA: true}
	z.Sites[1] = site

	z.Talkgroups[1] = &model.Talkgroup{ID: 1, Alias: "tg1", Mode: model.ModeFDMA, Priority: model.PriorityNormal}

	u := model.NewUnit(1, "u1", false)
	loc := model.Coordinates{Latitude: 0, Longitude: 0}
	u.Location = &loc
	u.SelectedTalkgroupID = 1
	u.HasSelectedTalkgroup = true
	z.Units[1] = u

	allocator := alloc.New(zeroRand{}, nil, zerolog.Nop())
	scanner := rf.New(zeroRand{})
	c, err := New(1, wacn, allocator, scanner, zeroRand{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.InitializeSystem()
	c.Tick(0) // dispatch the control-channel-establish event from InitializeSystem

	if site.Status != model.SiteOnline {
		t.Fatalf("site status = %v, want online", site.Status)
	}
	return c, u
}

func TestControllerRegistrationAndCallSetup(t *testing.T) {
	c, u := newTestController(t)

	if err := c.Publish(signaling.NewUnitPowerOnCommand(u.ID)); err != nil {
		t.Fatalf("publish power-on: %v", err)
	}
	c.Tick(0) // power-on -> scan -> registration request scheduled at +0.1

	if u.State != model.UnitSearchingForSite {
		t.Fatalf("state after scan = %v, want SEARCHING_FOR_SITE", u.State)
	}
	if !u.HasCurrentSite || u.CurrentSiteID != 1 {
		t.Fatalf("unit did not scan onto site 1: %+v", u)
	}

	c.Tick(0.1) // registration request -> response scheduled at +0.1
	c.Tick(0.1) // registration response -> affiliation request scheduled at +0.1
	if u.State != model.UnitAffiliating {
		t.Fatalf("state after registration = %v, want AFFILIATING", u.State)
	}

	c.Tick(0.1) // affiliation request -> response scheduled at +0.1
	c.Tick(0.1) // affiliation response
	if u.State != model.UnitIdleAffiliated {
		t.Fatalf("state after affiliation = %v, want IDLE_AFFILIATED", u.State)
	}
	if !u.HasAffiliatedTalkgroup || u.AffiliatedTalkgroupID != 1 {
		t.Fatalf("unit did not affiliate: %+v", u)
	}

	if err := c.Publish(signaling.NewUnitInitiateCallCommand(u.ID, 1)); err != nil {
		t.Fatalf("publish initiate call: %v", err)
	}
	c.Tick(0) // initiate -> voice service request -> setupCall -> grant scheduled at +0.05

	calls := c.ActiveCalls()
	if len(calls) != 1 {
		t.Fatalf("active calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.Status != model.CallActive {
		t.Fatalf("call status = %v, want ACTIVE", call.Status)
	}

	c.Tick(0.05) // channel grant delivered to the unit
	if u.State != model.UnitInCall {
		t.Fatalf("state after grant = %v, want IN_CALL", u.State)
	}

	if err := c.Publish(signaling.NewUnitEndTransmissionCommand(u.ID, call.ID)); err != nil {
		t.Fatalf("publish end transmission: %v", err)
	}
	c.Tick(0) // no hangtime configured: teardown fires immediately

	if _, stillActive := c.ActiveCall(call.ID); stillActive {
		t.Fatal("expected call to have torn down")
	}
	if u.State != model.UnitIdleAffiliated {
		t.Fatalf("state after teardown = %v, want IDLE_AFFILIATED", u.State)
	}
	site, _ := c.Site(1)
	if len(site.AssignedVoiceChannels) != 0 {
		t.Fatalf("expected voice channel to be released, got %v", site.AssignedVoiceChannels)
	}
}

func TestControllerQueuesCallWhenChannelsExhausted(t *testing.T) {
	c, u := newTestController(t)
	site, _ := c.Site(1)

	// Exhaust the only voice channel by hand so the next call setup blocks.
	site.AssignedVoiceChannels[model.VoiceChannelKey{ChannelID: 2}] = 999

	c.Publish(signaling.NewUnitPowerOnCommand(u.ID))
	c.Tick(0)
	c.Tick(0.1)
	c.Tick(0.1)
	c.Tick(0.1)
	c.Tick(0.1)
	if u.State != model.UnitIdleAffiliated {
		t.Fatalf("state = %v, want IDLE_AFFILIATED before call attempt", u.State)
	}

	c.Publish(signaling.NewUnitInitiateCallCommand(u.ID, 1))
	c.Tick(0)

	calls := c.ActiveCalls()
	if len(calls) != 1 {
		t.Fatalf("active calls = %d, want 1", len(calls))
	}
	if calls[0].Status != model.CallQueued {
		t.Fatalf("call status = %v, want QUEUED", calls[0].Status)
	}

	status := c.QueueStatus()
	if len(status.NextQueuedCalls) != 1 {
		t.Fatalf("queued calls = %d, want 1", len(status.NextQueuedCalls))
	}
}

// newHangtimeTestController builds a zone with one online site, one unit
// affiliated to a hangtime-bearing talkgroup, and a console that can re-key
// that talkgroup at any time (ConsoleInitiateCallCommand has no state
// gate), for exercising the re-key/teardown race directly.
func newHangtimeTestController(t *testing.T) (c *Controller, u *model.Unit, console *model.Unit, tg *model.Talkgroup) {
	t.Helper()
	wacn := model.NewWACN(1, nil)
	z := model.NewRFSS(1, "z1", nil)
	wacn.Zones[1] = z

	site, err := model.NewSite(1, 1, "site1", model.AssignRotating, []model.Subsite{
		{ID: 1, Location: model.Coordinates{Latitude: 0, Longitude: 0}, OperatingRadiusKm: 50},
	})
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}
	site.Channels[1] = &model.Channel{ID: 1, Enabled: true, Control: true}
	site.Channels[2] = &model.Channel{ID: 2, Enabled: true, FDMA: true}
	z.Sites[1] = site

	tg = &model.Talkgroup{ID: 1, Alias: "tg1", Mode: model.ModeFDMA, Priority: model.PriorityNormal, PTTID: true, HangtimeMs: 1000}
	z.Talkgroups[1] = tg

	u = model.NewUnit(1, "u1", false)
	u.State = model.UnitIdleAffiliated
	u.HasCurrentSite, u.CurrentSiteID = true, 1
	u.HasAffiliatedTalkgroup, u.AffiliatedTalkgroupID = true, 1
	site.AddRegistration(u.ID)
	z.Units[u.ID] = u

	console = model.NewConsole(2, "con1", []int{1})
	z.Units[console.ID] = console

	allocator := alloc.New(zeroRand{}, nil, zerolog.Nop())
	scanner := rf.New(zeroRand{})
	c, err = New(1, wacn, allocator, scanner, zeroRand{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.InitializeSystem()
	c.Tick(0)
	return c, u, console, tg
}

func TestControllerHangtimeRekeyRace(t *testing.T) {
	c, u, console, tg := newHangtimeTestController(t)
	if tg.HangtimeMs != 1000 {
		t.Fatalf("hangtime = %d, want 1000", tg.HangtimeMs)
	}

	c.Publish(signaling.NewUnitInitiateCallCommand(u.ID, 1))
	c.Tick(0)
	calls := c.ActiveCalls()
	if len(calls) != 1 || calls[0].Status != model.CallActive {
		t.Fatalf("expected one active call, got %+v", calls)
	}
	callID := calls[0].ID

	// The console re-keys the talkgroup before anyone has ended
	// transmission: this must not leave a stale restart flag that cancels
	// the next legitimate teardown.
	c.Publish(signaling.NewConsoleInitiateCallCommand(console.ID, 1))
	c.Tick(0)

	c.Publish(signaling.NewUnitEndTransmissionCommand(console.ID, callID))
	c.Tick(0) // teardown scheduled for now+1s; the stale restart flag must be cleared here

	// A genuine re-key during the hangtime window cancels this teardown.
	c.Publish(signaling.NewConsoleInitiateCallCommand(console.ID, 1))
	c.Tick(0)

	c.Tick(1.0) // the first teardown fires and must be cancelled
	if _, active := c.ActiveCall(callID); !active {
		t.Fatal("call should still be active: the in-window re-key must cancel this teardown")
	}

	// With no further re-key, ending transmission now must actually tear
	// the call down once its hangtime elapses.
	c.Publish(signaling.NewUnitEndTransmissionCommand(console.ID, callID))
	c.Tick(0)
	c.Tick(1.0)
	if _, active := c.ActiveCall(callID); active {
		t.Fatal("expected the call to tear down once no re-key landed during hangtime")
	}
}
