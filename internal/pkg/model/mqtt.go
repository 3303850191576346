package model

type DiscoveryDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// DiscoveryMessage is the Home Assistant discovery config for one link,
// published retained so entities survive broker restarts.
type DiscoveryMessage struct {
	Tilda             string          `json:"~"`
	Name              string          `json:"name"`
	ID                string          `json:"unique_id"`
	StateTopic        string          `json:"state_topic"`
	DeviceClass       string          `json:"device_class"`
	AvailabilityTopic string          `json:"availability_topic,omitempty"`
	Device            DiscoveryDevice `json:"device"`
}
