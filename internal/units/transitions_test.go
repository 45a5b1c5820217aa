package units

import (
	"testing"

	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
)

func TestPowerOn(t *testing.T) {
	t.Run("transitions from powered off to searching", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		PowerOn(u)
		if u.State != model.UnitSearchingForSite {
			t.Fatalf("state = %v, want SEARCHING_FOR_SITE", u.State)
		}
	})

	t.Run("no-op from any other state", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.State = model.UnitInCall
		PowerOn(u)
		if u.State != model.UnitInCall {
			t.Fatalf("state = %v, want unchanged IN_CALL", u.State)
		}
	})
}

func TestHandleRegistrationResponse(t *testing.T) {
	t.Run("accept without a selected talkgroup sets idle registered", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.State = model.UnitRegistering
		resp := signaling.NewUnitRegistrationResponse(1, 10, 1, signaling.RegAccept)

		next := HandleRegistrationResponse(u, resp, nil)

		if u.State != model.UnitIdleRegistered {
			t.Fatalf("state = %v, want IDLE_REGISTERED", u.State)
		}
		if !u.HasCurrentSite || u.CurrentSiteID != 10 {
			t.Fatalf("current site not recorded: %+v", u)
		}
		if next != nil {
			t.Fatalf("expected no affiliation request, got %+v", next)
		}
	})

	t.Run("accept with a selected talkgroup emits an affiliation request", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.SelectedTalkgroupID = 5
		u.HasSelectedTalkgroup = true
		tg := &model.Talkgroup{ID: 5, Mode: model.ModeFDMA}
		resp := signaling.NewUnitRegistrationResponse(1, 10, 1, signaling.RegAccept)

		next := HandleRegistrationResponse(u, resp, tg)

		if next == nil {
			t.Fatal("expected an affiliation request")
		}
		if u.State != model.UnitAffiliating {
			t.Fatalf("state = %v, want AFFILIATING", u.State)
		}
	})

	t.Run("refused is terminal", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		resp := signaling.NewUnitRegistrationResponse(1, 10, 1, signaling.RegRefused)

		HandleRegistrationResponse(u, resp, nil)

		if u.State != model.UnitFailed {
			t.Fatalf("state = %v, want FAILED", u.State)
		}
	})

	t.Run("deny bans the site and resumes searching", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		resp := signaling.NewUnitRegistrationResponse(1, 10, 1, signaling.RegDeny)

		HandleRegistrationResponse(u, resp, nil)

		if u.State != model.UnitSearchingForSite {
			t.Fatalf("state = %v, want SEARCHING_FOR_SITE", u.State)
		}
		if !u.IsBannedFromSite(1, 10) {
			t.Fatal("expected site to be banned")
		}
	})
}

func TestAffiliateToTalkgroup(t *testing.T) {
	t.Run("banned talkgroup returns to idle registered", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		tg := &model.Talkgroup{ID: 5}
		u.BannedTalkgroups[5] = struct{}{}

		req := AffiliateToTalkgroup(u, tg)

		if req != nil {
			t.Fatal("expected no request for a banned talkgroup")
		}
		if u.State != model.UnitIdleRegistered {
			t.Fatalf("state = %v, want IDLE_REGISTERED", u.State)
		}
	})

	t.Run("exhausted attempts returns to idle registered", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		tg := &model.Talkgroup{ID: 5}
		u.AffiliationAttempts[5] = model.MaxAffiliationAttempts

		req := AffiliateToTalkgroup(u, tg)

		if req != nil {
			t.Fatal("expected no request once attempts are exhausted")
		}
		if u.State != model.UnitIdleRegistered {
			t.Fatalf("state = %v, want IDLE_REGISTERED", u.State)
		}
	})

	t.Run("otherwise emits a request and goes affiliating", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		tg := &model.Talkgroup{ID: 5}

		req := AffiliateToTalkgroup(u, tg)

		if req == nil {
			t.Fatal("expected an affiliation request")
		}
		if u.State != model.UnitAffiliating {
			t.Fatalf("state = %v, want AFFILIATING", u.State)
		}
	})
}

func TestHandleAffiliationResponse(t *testing.T) {
	t.Run("accepted sets affiliated talkgroup from selected", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.SelectedTalkgroupID = 5
		u.HasSelectedTalkgroup = true
		resp := signaling.NewGroupAffiliationResponse(1, 5, 1, signaling.AffAccepted)

		HandleAffiliationResponse(u, resp)

		if u.State != model.UnitIdleAffiliated {
			t.Fatalf("state = %v, want IDLE_AFFILIATED", u.State)
		}
		if !u.HasAffiliatedTalkgroup || u.AffiliatedTalkgroupID != 5 {
			t.Fatalf("affiliated talkgroup not recorded: %+v", u)
		}
	})

	t.Run("denied bans the current site and resumes searching", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.CurrentSiteID = 10
		u.HasCurrentSite = true
		resp := signaling.NewGroupAffiliationResponse(1, 5, 1, signaling.AffDenied)

		HandleAffiliationResponse(u, resp)

		if u.State != model.UnitSearchingForSite {
			t.Fatalf("state = %v, want SEARCHING_FOR_SITE", u.State)
		}
		if !u.IsBannedFromSite(1, 10) {
			t.Fatal("expected current site to be banned")
		}
	})

	t.Run("failed increments attempts and returns to idle registered", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		resp := signaling.NewGroupAffiliationResponse(1, 5, 1, signaling.AffFailed)

		HandleAffiliationResponse(u, resp)

		if u.AffiliationAttempts[5] != 1 {
			t.Fatalf("attempts = %d, want 1", u.AffiliationAttempts[5])
		}
		if u.State != model.UnitIdleRegistered {
			t.Fatalf("state = %v, want IDLE_REGISTERED", u.State)
		}
	})

	t.Run("refused permanently bans the talkgroup", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		resp := signaling.NewGroupAffiliationResponse(1, 5, 1, signaling.AffRefused)

		HandleAffiliationResponse(u, resp)

		if !u.IsBannedFromTalkgroup(5) {
			t.Fatal("expected talkgroup to be banned")
		}
	})
}

func TestHandleVoiceChannelGrant(t *testing.T) {
	t.Run("call requested transitions to in call", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.State = model.UnitCallRequested
		if !HandleVoiceChannelGrant(u) {
			t.Fatal("expected grant to be accepted")
		}
		if u.State != model.UnitInCall {
			t.Fatalf("state = %v, want IN_CALL", u.State)
		}
	})

	t.Run("unrelated state ignores the grant", func(t *testing.T) {
		u := model.NewUnit(1, "u1", false)
		u.State = model.UnitSearchingForSite
		if HandleVoiceChannelGrant(u) {
			t.Fatal("expected grant to be ignored")
		}
	})
}

func TestUnban(t *testing.T) {
	u := model.NewUnit(1, "u1", false)
	u.BannedSites[model.SiteBanKey{ZoneID: 1, SiteID: 10}] = struct{}{}

	Unban(u, 1, 10)

	if u.IsBannedFromSite(1, 10) {
		t.Fatal("expected ban to be lifted")
	}

	Unban(u, 1, 10) // idempotent
}
