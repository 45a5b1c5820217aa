package simapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	zones     ZoneRegistry
	version   string
	startTime time.Time
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		ZoneCount:     len(h.zones.ZoneIDs()),
	})
}

func (h *handlers) zoneFromParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("zoneID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid zone id"})
		return 0, false
	}
	if _, ok := h.zones.Zone(id); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("zone %d not found", id)})
		return 0, false
	}
	return id, true
}

func (h *handlers) listUnits(c *gin.Context) {
	zoneID, ok := h.zoneFromParam(c)
	if !ok {
		return
	}
	zc, _ := h.zones.Zone(zoneID)

	units := zc.Units()
	out := make([]UnitSummary, 0, len(units))
	for _, u := range units {
		s := UnitSummary{ID: u.ID, Alias: u.Alias, IsConsole: u.IsConsole, State: u.State.String()}
		if u.HasCurrentSite {
			id := u.CurrentSiteID
			s.CurrentSiteID = &id
		}
		if u.HasAffiliatedTalkgroup {
			id := u.AffiliatedTalkgroupID
			s.AffiliatedTalkgroup = &id
		}
		if u.HasCurrentCall {
			id := u.CurrentCallID
			s.CurrentCallID = &id
		}
		out = append(out, s)
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) listCalls(c *gin.Context) {
	zoneID, ok := h.zoneFromParam(c)
	if !ok {
		return
	}
	zc, _ := h.zones.Zone(zoneID)

	calls := zc.ActiveCalls()
	out := make([]CallSummary, 0, len(calls))
	for _, call := range calls {
		siteChannels := make(map[int]string, len(call.AssignedChannelsBySite))
		for siteID, key := range call.AssignedChannelsBySite {
			siteChannels[siteID] = fmt.Sprintf("ch%d/%s", key.ChannelID, key.Slot)
		}
		out = append(out, CallSummary{
			ID:               call.ID,
			InitiatingUnitID: call.InitiatingUnitID,
			TalkgroupID:      call.TalkgroupID,
			Mode:             call.Mode.String(),
			Status:           call.Status.String(),
			SiteChannels:     siteChannels,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) queueStatus(c *gin.Context) {
	zoneID, ok := h.zoneFromParam(c)
	if !ok {
		return
	}
	zc, _ := h.zones.Zone(zoneID)

	qs := zc.QueueStatus()
	events := make([]QueueEntrySummary, 0, len(qs.NextEvents))
	for _, e := range qs.NextEvents {
		events = append(events, QueueEntrySummary{
			ExecTime: e.ExecTime,
			Priority: int(e.Priority),
			Type:     fmt.Sprintf("%T", e.Event),
		})
	}
	calls := make([]QueuedCallSummary, 0, len(qs.NextQueuedCalls))
	for _, qc := range qs.NextQueuedCalls {
		calls = append(calls, QueuedCallSummary{
			CallID: qc.CallID, TalkgroupID: qc.TalkgroupID,
			Priority: int(qc.Priority), QueuedAt: qc.QueuedAt,
		})
	}
	c.JSON(http.StatusOK, QueueStatusResponse{
		ZoneID:        zoneID,
		Now:           qs.Now,
		PendingEvents: events,
		QueuedCalls:   calls,
	})
}
