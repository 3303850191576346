package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

func (s *service) Write(ctx context.Context, updates []model.StatusUpdate) error {
	for _, u := range updates {
		if err := s.publishState(u); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLink publishes the retained discovery config, once per entity.
func (s *service) RegisterLink(link model.LinkRef) error {
	entity := entityID(link.Modem, link.UID)
	if _, exists := s.announced[entity]; exists {
		return nil
	}

	payload, err := json.Marshal(discoveryMsg(link, entity))
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("homeassistant/binary_sensor/%s/config", entity)

	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		s.announced[entity] = struct{}{}
	}
	return nil
}

func (s *service) publishState(u model.StatusUpdate) error {
	topic := fmt.Sprintf("insteon-panel/link/%s/state", entityID(u.Modem, u.UID))

	// device_class problem: ON means the link needs attention.
	state := "OFF"
	if u.Status.NeedsFix() {
		state = "ON"
	}

	token := s.client.Publish(topic, 0, false, []byte(state))
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	return token.Error()
}

func entityID(modem, uid string) string {
	return slug.Make(fmt.Sprintf("%s %s", modem, uid))
}

func discoveryMsg(link model.LinkRef, entity string) model.DiscoveryMessage {
	name := fmt.Sprintf("%s group %d link", link.ResponderID, link.ResponderGroup)

	return model.DiscoveryMessage{
		Tilda:             fmt.Sprintf("insteon-panel/link/%s", entity),
		Name:              name,
		ID:                entity,
		StateTopic:        "~/state",
		DeviceClass:       "problem",
		AvailabilityTopic: AvailabilityTopic,
		Device: model.DiscoveryDevice{
			Name:         fmt.Sprintf("Insteon hub %s", link.Modem),
			Identifiers:  []string{link.Modem},
			Model:        "Insteon Hub",
			Manufacturer: "Insteon",
		},
	}
}
