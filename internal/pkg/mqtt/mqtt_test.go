package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/insteon-panel/internal/pkg/model"
)

type mockToken struct{ err error }

func (t *mockToken) Wait() bool                     { return true }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Error() error                   { return t.err }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type mockClient struct {
	publishes  []publishCall
	publishErr error
}

func (m *mockClient) IsConnected() bool              { return true }
func (m *mockClient) IsConnectionOpen() bool         { return true }
func (m *mockClient) Connect() paho_mqtt.Token       { return &mockToken{} }
func (m *mockClient) Disconnect(quiesce uint)        {}
func (m *mockClient) AddRoute(string, paho_mqtt.MessageHandler) {}
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho_mqtt.Token {
	m.publishes = append(m.publishes, publishCall{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &mockToken{err: m.publishErr}
}
func (m *mockClient) Subscribe(string, byte, paho_mqtt.MessageHandler) paho_mqtt.Token {
	return &mockToken{}
}
func (m *mockClient) SubscribeMultiple(map[string]byte, paho_mqtt.MessageHandler) paho_mqtt.Token {
	return &mockToken{}
}
func (m *mockClient) Unsubscribe(...string) paho_mqtt.Token { return &mockToken{} }
func (m *mockClient) OptionsReader() paho_mqtt.ClientOptionsReader {
	return paho_mqtt.ClientOptionsReader{}
}

func testRef() model.LinkRef {
	return model.LinkRef{Modem: "1A2B3C", UID: "aaa", ResponderID: "4D5E6F", ResponderGroup: 1}
}

func TestConnect(t *testing.T) {
	s := New(&mockClient{})
	assert.NoError(t, s.Connect())
}

func TestRegisterLinkAnnouncesOnce(t *testing.T) {
	client := &mockClient{}
	s := New(client)

	require.NoError(t, s.RegisterLink(testRef()))
	require.NoError(t, s.RegisterLink(testRef()))
	require.Len(t, client.publishes, 1)

	call := client.publishes[0]
	assert.Equal(t, "homeassistant/binary_sensor/1a2b3c-aaa/config", call.topic)
	assert.Equal(t, byte(1), call.qos)
	assert.True(t, call.retained)

	var msg model.DiscoveryMessage
	require.NoError(t, json.Unmarshal(call.payload, &msg))
	assert.Equal(t, "insteon-panel/link/1a2b3c-aaa", msg.Tilda)
	assert.Equal(t, "1a2b3c-aaa", msg.ID)
	assert.Equal(t, "~/state", msg.StateTopic)
	assert.Equal(t, "problem", msg.DeviceClass)
	assert.Equal(t, AvailabilityTopic, msg.AvailabilityTopic)
	assert.Equal(t, "4D5E6F group 1 link", msg.Name)
	assert.Equal(t, []string{"1A2B3C"}, msg.Device.Identifiers)
}

func TestWritePublishesProblemStates(t *testing.T) {
	client := &mockClient{}
	s := New(client)

	updates := []model.StatusUpdate{
		{Modem: "1A2B3C", UID: "aaa", Status: model.StatusBroken},
		{Modem: "1A2B3C", UID: "bbb", Status: model.StatusWorking},
		{Modem: "1A2B3C", UID: "ccc", Status: model.StatusNotify},
	}
	require.NoError(t, s.Write(context.Background(), updates))
	require.Len(t, client.publishes, 3)

	assert.Equal(t, "insteon-panel/link/1a2b3c-aaa/state", client.publishes[0].topic)
	assert.Equal(t, "ON", string(client.publishes[0].payload))
	assert.Equal(t, "OFF", string(client.publishes[1].payload))
	assert.Equal(t, "ON", string(client.publishes[2].payload))
	assert.Equal(t, byte(0), client.publishes[0].qos)
	assert.False(t, client.publishes[0].retained)
}

func TestOnlineMarker(t *testing.T) {
	client := &mockClient{}
	s := New(client)

	require.NoError(t, s.Online())
	require.Len(t, client.publishes, 1)
	assert.Equal(t, AvailabilityTopic, client.publishes[0].topic)
	assert.Equal(t, "online", string(client.publishes[0].payload))
	assert.True(t, client.publishes[0].retained)
}
