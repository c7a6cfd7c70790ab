package server

import (
	"encoding/json"
	"testing"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	topic    string
	retained bool
	payload  string
}

func newTestMQTT() (*MQTT, *[]message) {
	var msgs []message

	m := &MQTT{
		log:        util.NewLogger("mqtt"),
		root:       MqttConfig{}.RootTopic(),
		url:        "http://onstar:7070",
		discovered: make(map[string]bool),
		publish: func(topic string, retained bool, payload string) {
			msgs = append(msgs, message{topic, retained, payload})
		},
	}

	return m, &msgs
}

func TestMQTTRootTopic(t *testing.T) {
	assert.Equal(t, "onstar", MqttConfig{}.RootTopic())
	assert.Equal(t, "car", MqttConfig{Topic: "car/"}.RootTopic())
}

func TestMQTTSensor(t *testing.T) {
	m, msgs := newTestMQTT()

	p := util.Param{Key: "sensor.odometer", Val: EntityState{
		EntityID:   "sensor.odometer",
		Name:       "Odometer",
		State:      45000,
		Unit:       "km",
		Icon:       "mdi:speedometer",
		Attributes: map[string]interface{}{"state": api.PresenceOn},
	}}

	m.handle(p)
	require.Len(t, *msgs, 3)

	discovery := (*msgs)[0]
	assert.Equal(t, "homeassistant/sensor/onstar/odometer/config", discovery.topic)
	assert.True(t, discovery.retained)

	var conf discoveryConfig
	require.NoError(t, json.Unmarshal([]byte(discovery.payload), &conf))
	assert.Equal(t, "Odometer", conf.Name)
	assert.Equal(t, "odometer", conf.UniqueID)
	assert.Equal(t, "onstar/sensor.odometer", conf.StateTopic)
	assert.Equal(t, "km", conf.UnitOfMeasurement)
	assert.Equal(t, "http://onstar:7070", conf.Device.ConfigURL)

	assert.Equal(t, message{"onstar/sensor.odometer", true, "45000"}, (*msgs)[1])
	assert.Equal(t, message{"onstar/sensor.odometer/attributes", true, `{"state":"ON"}`}, (*msgs)[2])

	// discovery is sent once
	m.handle(p)
	assert.Len(t, *msgs, 5)
}

func TestMQTTTracker(t *testing.T) {
	m, msgs := newTestMQTT()

	m.handle(util.Param{Key: "device_tracker.ab_123_cd", Val: platform.DeviceSighting{
		DevID:      "ab_123_cd",
		HostName:   "AB-123-CD",
		GPS:        api.Position{Lat: 48.8566, Lon: 2.3522},
		Attributes: map[string]interface{}{"vin": "W0L000051T2123456"},
		Icon:       "mdi:car",
	}})

	require.Len(t, *msgs, 2)

	var conf discoveryConfig
	assert.Equal(t, "homeassistant/device_tracker/onstar/ab_123_cd/config", (*msgs)[0].topic)
	require.NoError(t, json.Unmarshal([]byte((*msgs)[0].payload), &conf))
	assert.Equal(t, "gps", conf.SourceType)
	assert.Equal(t, "onstar/device_tracker/ab_123_cd", conf.JSONAttributesTopic)

	var attrs map[string]interface{}
	assert.Equal(t, "onstar/device_tracker/ab_123_cd", (*msgs)[1].topic)
	require.NoError(t, json.Unmarshal([]byte((*msgs)[1].payload), &attrs))
	assert.Equal(t, map[string]interface{}{
		"latitude":  48.8566,
		"longitude": 2.3522,
		"vin":       "W0L000051T2123456",
	}, attrs)
}

func TestMQTTEncode(t *testing.T) {
	assert.Equal(t, "", encode(nil))
	assert.Equal(t, "foo", encode("foo"))
	assert.Equal(t, "85.5", encode(85.5))
	assert.Equal(t, "true", encode(true))
	assert.Equal(t, "3", encode(3))
}
