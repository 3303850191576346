// Package mqtt announces link health to Home Assistant. Each tracked link
// becomes a binary_sensor with device_class problem; state flips ON while
// the link needs fixing.
package mqtt

import (
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
)

// AvailabilityTopic carries the announcer's LWT payloads.
const AvailabilityTopic = "insteon-panel/availability"

type service struct {
	client    paho_mqtt.Client
	announced map[string]struct{}
}

func New(client paho_mqtt.Client) *service {
	return &service{
		client:    client,
		announced: make(map[string]struct{}),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}

// Online publishes the retained availability marker; the LWT set at
// connect time flips it back when the panel drops off.
func (s *service) Online() error {
	token := s.client.Publish(AvailabilityTopic, 1, true, []byte("online"))
	if res := token.WaitTimeout(time.Second * 5); !res {
		return token.Error()
	}
	return token.Error()
}

func (s *service) Disconnect() {
	s.client.Disconnect(250)
}
