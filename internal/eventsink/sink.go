// Package eventsink forwards zone activity to an external MQTT broker, one
// JSON message per dispatched event. It is the reverse of the teacher's
// internal/mqttclient, which subscribes and ingests; this package connects
// and publishes.
package eventsink

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/signaling"
)

// Options configures a Sink's MQTT connection.
type Options struct {
	BrokerURL string
	ClientID  string
	TopicRoot string
	Username  string
	Password  string
	Log       zerolog.Logger
}

// Sink publishes every event it observes to "<TopicRoot>/zone/<zoneID>/<event type>".
type Sink struct {
	conn      mqtt.Client
	topicRoot string
	log       zerolog.Logger
}

// Connect dials the configured broker. The returned Sink is not yet wired
// to any zone — call Publish (directly, or via Controller.Tap) per event.
func Connect(opts Options) (*Sink, error) {
	s := &Sink{topicRoot: opts.TopicRoot, log: opts.Log}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetryInterval(5 * time.Second)
	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		clientOpts.SetPassword(opts.Password)
	}

	s.conn = mqtt.NewClient(clientOpts)
	token := s.conn.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return s, nil
}

// Publish forwards a single event for zoneID to the broker. Errors are
// logged, not returned — a broker hiccup must never stall a zone's
// dispatch loop.
func (s *Sink) Publish(zoneID int, event signaling.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn().Err(err).Msg("event marshal failed, dropping")
		return
	}
	topic := fmt.Sprintf("%s/zone/%d/%T", s.topicRoot, zoneID, event)
	token := s.conn.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		s.log.Warn().Str("topic", topic).Msg("event publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
	}
}

// ForZone returns a handler suitable for Controller.Tap, closing over zoneID.
func (s *Sink) ForZone(zoneID int) func(signaling.Event) {
	return func(event signaling.Event) {
		s.Publish(zoneID, event)
	}
}

// Close disconnects from the broker.
func (s *Sink) Close() {
	s.conn.Disconnect(250)
}
