package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trunkradio/radiosim/internal/signaling"
	"github.com/trunkradio/radiosim/internal/zone"
)

// commandProcessor dispatches REPL command lines against a running
// zone.Registry. Its command grammar (verb, then subcommand, then
// positional args) mirrors the original prototype's CommandProcessor.
type commandProcessor struct {
	zones *zone.Registry
}

func newCommandProcessor(zones *zone.Registry) *commandProcessor {
	return &commandProcessor{zones: zones}
}

// execute runs one command line, returning false if the REPL should exit.
func (p *commandProcessor) execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		fmt.Println("no command entered")
		return true
	}

	switch strings.ToUpper(parts[0]) {
	case "EXIT":
		return false
	case "TICK":
		p.tickCommand(parts[1:])
	case "RADIO":
		p.radioCommand(parts[1:])
	case "CONSOLE":
		p.consoleCommand(parts[1:])
	case "SITE":
		p.siteCommand(parts[1:])
	case "P":
		p.printCommand(parts[1:])
	default:
		fmt.Printf("unknown command: %s\n", parts[0])
	}
	return true
}

func (p *commandProcessor) zoneArg(raw string) (*zone.Controller, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid zone id %q", raw)
	}
	zc, ok := p.zones.Zone(id)
	if !ok {
		return nil, fmt.Errorf("zone %d not found", id)
	}
	return zc, nil
}

func (p *commandProcessor) tickCommand(args []string) {
	if len(args) < 1 {
		fmt.Println("TICK requires a duration in seconds")
		return
	}
	delta, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Printf("invalid duration %q\n", args[0])
		return
	}
	if len(args) >= 2 {
		zc, err := p.zoneArg(args[1])
		if err != nil {
			fmt.Println(err)
			return
		}
		zc.Tick(delta)
		return
	}
	p.zones.Tick(delta)
}

// radioCommand handles "RADIO <zone> <unit> <verb> [args...]".
func (p *commandProcessor) radioCommand(args []string) {
	if len(args) < 3 {
		fmt.Println("RADIO requires a zone id, unit id, and verb")
		return
	}
	zc, err := p.zoneArg(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	unitID, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("invalid unit id %q\n", args[1])
		return
	}

	switch strings.ToUpper(args[2]) {
	case "POWERON":
		zc.Publish(signaling.NewUnitPowerOnCommand(unitID))
	case "SCAN":
		zc.Publish(signaling.NewUnitScanForSitesCommand(unitID))
	case "CALL":
		if len(args) < 4 {
			fmt.Println("RADIO <zone> <unit> CALL requires a talkgroup id")
			return
		}
		tgID, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Printf("invalid talkgroup id %q\n", args[3])
			return
		}
		zc.Publish(signaling.NewUnitInitiateCallCommand(unitID, tgID))
	case "END":
		if len(args) < 4 {
			fmt.Println("RADIO <zone> <unit> END requires a call id")
			return
		}
		callID, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Printf("invalid call id %q\n", args[3])
			return
		}
		zc.Publish(signaling.NewUnitEndTransmissionCommand(unitID, callID))
	default:
		fmt.Printf("unknown RADIO subcommand: %s\n", args[2])
	}
}

// consoleCommand handles "CONSOLE <zone> <console> CALL <talkgroup>".
func (p *commandProcessor) consoleCommand(args []string) {
	if len(args) < 4 || strings.ToUpper(args[2]) != "CALL" {
		fmt.Println("CONSOLE requires a zone id, console id, CALL, and talkgroup id")
		return
	}
	zc, err := p.zoneArg(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	consoleID, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("invalid console id %q\n", args[1])
		return
	}
	tgID, err := strconv.Atoi(args[3])
	if err != nil {
		fmt.Printf("invalid talkgroup id %q\n", args[3])
		return
	}
	zc.Publish(signaling.NewConsoleInitiateCallCommand(consoleID, tgID))
}

// siteCommand handles "SITE STATUS <zone> <site>".
func (p *commandProcessor) siteCommand(args []string) {
	if len(args) < 3 || strings.ToUpper(args[0]) != "STATUS" {
		fmt.Println("SITE STATUS command requires a zone id and site id")
		return
	}
	zc, err := p.zoneArg(args[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	siteID, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Printf("invalid site id %q\n", args[2])
		return
	}
	site, ok := zc.Site(siteID)
	if !ok {
		fmt.Printf("site %d not found in zone %d\n", siteID, zc.ZoneID())
		return
	}
	fmt.Printf("site %d status=%s control_channel=%d registrations=%d\n",
		site.ID, site.Status, site.ControlChannelID, len(site.Registrations))
}

// printCommand handles "P ALL" and "P QUEUE <zone>".
func (p *commandProcessor) printCommand(args []string) {
	if len(args) < 1 {
		fmt.Println("no subcommand entered for P")
		return
	}
	switch strings.ToUpper(args[0]) {
	case "ALL":
		for _, id := range p.zones.ZoneIDs() {
			zc, _ := p.zones.Zone(id)
			fmt.Printf("zone %d: %d units, %d active calls, now=%.3f\n",
				id, len(zc.Units()), len(zc.ActiveCalls()), zc.Now())
		}
	case "QUEUE":
		if len(args) < 2 {
			fmt.Println("P QUEUE requires a zone id")
			return
		}
		zc, err := p.zoneArg(args[1])
		if err != nil {
			fmt.Println(err)
			return
		}
		qs := zc.QueueStatus()
		fmt.Printf("zone %d now=%.3f pending_events=%d queued_calls=%d\n",
			zc.ZoneID(), qs.Now, len(qs.NextEvents), len(qs.NextQueuedCalls))
	default:
		fmt.Printf("unknown P subcommand: %s\n", args[0])
	}
}
