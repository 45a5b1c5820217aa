package model

import "testing"

func newTestSubsites() []Subsite {
	return []Subsite{{ID: 1, Alias: "main", OperatingRadiusKm: 10}}
}

func TestNewSite(t *testing.T) {
	t.Run("rejects a site with no subsites", func(t *testing.T) {
		_, err := NewSite(1, 1, "empty", AssignRotating, nil)
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("starts offline", func(t *testing.T) {
		s, err := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Status != SiteOffline {
			t.Fatalf("status = %v, want offline", s.Status)
		}
	})
}

func TestSiteInitialize(t *testing.T) {
	t.Run("no enabled channels fails the site", func(t *testing.T) {
		s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		if s.Initialize() {
			t.Fatal("expected Initialize to fail")
		}
		if s.Status != SiteFailed {
			t.Fatalf("status = %v, want failed", s.Status)
		}
	})

	t.Run("no control channel fails the site", func(t *testing.T) {
		s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		s.Channels[1] = &Channel{ID: 1, Enabled: true, FDMA: true}
		if s.Initialize() {
			t.Fatal("expected Initialize to fail")
		}
	})

	t.Run("no voice channel fails the site", func(t *testing.T) {
		s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		s.Channels[1] = &Channel{ID: 1, Enabled: true, Control: true}
		if s.Initialize() {
			t.Fatal("expected Initialize to fail")
		}
	})

	t.Run("lowest-id control channel wins and site comes online", func(t *testing.T) {
		s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		s.Channels[5] = &Channel{ID: 5, Enabled: true, Control: true}
		s.Channels[2] = &Channel{ID: 2, Enabled: true, Control: true}
		s.Channels[3] = &Channel{ID: 3, Enabled: true, FDMA: true}

		if !s.Initialize() {
			t.Fatal("expected Initialize to succeed")
		}
		if s.ControlChannelID != 2 {
			t.Fatalf("control channel = %d, want 2", s.ControlChannelID)
		}
		if s.Status != SiteOnline {
			t.Fatalf("status = %v, want online", s.Status)
		}
	})

	t.Run("disabled channels are ignored", func(t *testing.T) {
		s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
		s.Channels[1] = &Channel{ID: 1, Enabled: false, Control: true}
		s.Channels[2] = &Channel{ID: 2, Enabled: true, FDMA: true}
		if s.Initialize() {
			t.Fatal("expected Initialize to fail, the only control channel is disabled")
		}
	})
}

func TestSiteHasAvailableVoiceChannel(t *testing.T) {
	s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())
	s.Channels[1] = &Channel{ID: 1, Enabled: true, Control: true}
	s.Channels[2] = &Channel{ID: 2, Enabled: true, FDMA: true}
	s.Initialize()

	if !s.HasAvailableVoiceChannel() {
		t.Fatal("expected a voice channel to be available")
	}

	s.AssignedVoiceChannels[VoiceChannelKey{ChannelID: 2}] = 100
	if s.HasAvailableVoiceChannel() {
		t.Fatal("expected no voice channel to remain available")
	}
}

func TestSiteRegistrations(t *testing.T) {
	s, _ := NewSite(1, 1, "test", AssignRotating, newTestSubsites())

	s.AddRegistration(1)
	s.AddRegistration(1) // idempotent
	s.AddRegistration(2)

	if len(s.Registrations) != 2 {
		t.Fatalf("registrations = %v, want 2 entries", s.Registrations)
	}

	s.RemoveRegistration(1)
	if len(s.Registrations) != 1 || s.Registrations[0] != 2 {
		t.Fatalf("registrations after remove = %v, want [2]", s.Registrations)
	}

	s.RemoveRegistration(99) // no-op, not present
	if len(s.Registrations) != 1 {
		t.Fatalf("registrations = %v, want unchanged", s.Registrations)
	}
}
