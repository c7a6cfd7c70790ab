package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/util"
)

// MqttConfig is the broker configuration
type MqttConfig struct {
	Broker   string
	User     string
	Password string
	ClientID string
	Topic    string
}

// RootTopic returns the configured root topic or default
func (c MqttConfig) RootTopic() string {
	if topic := strings.TrimRight(c.Topic, "/"); topic != "" {
		return topic
	}
	return "onstar"
}

const (
	discoveryPrefix = "homeassistant"
	nodeID          = "onstar"
	mqttTimeout     = 10 * time.Second
)

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	ConfigURL    string   `json:"configuration_url,omitempty"`
}

type discoveryConfig struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	StateTopic          string          `json:"state_topic,omitempty"`
	JSONAttributesTopic string          `json:"json_attributes_topic,omitempty"`
	CommandTopic        string          `json:"command_topic,omitempty"`
	UnitOfMeasurement   string          `json:"unit_of_measurement,omitempty"`
	Icon                string          `json:"icon,omitempty"`
	SourceType          string          `json:"source_type,omitempty"`
	Device              discoveryDevice `json:"device"`
}

// MQTT publishes entity states with Home Assistant discovery
type MQTT struct {
	log        *util.Logger
	root       string
	url        string
	publish    func(topic string, retained bool, payload string)
	discovered map[string]bool
}

// NewMQTT creates a publisher connected to the configured broker. The update service
// is invoked on messages to <root>/update_state/set. If url is not empty it is
// announced as the device's configuration url.
func NewMQTT(conf MqttConfig, host *Host, url string) (*MQTT, error) {
	log := util.NewLogger("mqtt")

	broker := conf.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	clientID := conf.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("onstar-%d", time.Now().Unix())
	}

	m := &MQTT{
		log:        log,
		root:       conf.RootTopic(),
		url:        url,
		discovered: make(map[string]bool),
	}

	commandTopic := m.root + "/" + platform.ServiceUpdateState + "/set"

	opt := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(conf.User).
		SetPassword(conf.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttTimeout).
		SetOnConnectHandler(func(client paho.Client) {
			log.INFO.Printf("connected to %s", broker)

			token := client.Subscribe(commandTopic, 1, func(_ paho.Client, msg paho.Message) {
				log.DEBUG.Printf("recv %s: '%s'", msg.Topic(), string(msg.Payload()))
				if err := host.CallService(core.Domain, platform.ServiceUpdateState); err != nil {
					log.ERROR.Println(err)
				}
			})

			if token.WaitTimeout(mqttTimeout) && token.Error() != nil {
				log.ERROR.Printf("subscribe %s: %v", commandTopic, token.Error())
			}
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WARN.Printf("connection lost: %v", err)
		})

	client := paho.NewClient(opt)

	if token := client.Connect(); !token.WaitTimeout(mqttTimeout) {
		return nil, fmt.Errorf("connect %s: timeout", broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, err)
	}

	m.publish = func(topic string, retained bool, payload string) {
		m.log.TRACE.Printf("send %s: '%s'", topic, payload)
		token := client.Publish(topic, 1, retained, payload)
		go func() {
			if token.WaitTimeout(mqttTimeout) && token.Error() != nil {
				m.log.ERROR.Printf("publish %s: %v", topic, token.Error())
			}
		}()
	}

	return m, nil
}

func objectID(entityID string) string {
	if i := strings.Index(entityID, "."); i >= 0 {
		return entityID[i+1:]
	}
	return entityID
}

func (m *MQTT) device() discoveryDevice {
	return discoveryDevice{
		Identifiers:  []string{nodeID},
		Name:         "OnStar",
		Manufacturer: "Opel",
		Model:        "OnStar",
		ConfigURL:    m.url,
	}
}

func (m *MQTT) publishJSON(topic string, retained bool, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		m.log.ERROR.Printf("encode %s: %v", topic, err)
		return
	}

	m.publish(topic, retained, string(b))
}

func (m *MQTT) discoverSensor(s EntityState) {
	id := objectID(s.EntityID)

	m.publishJSON(fmt.Sprintf("%s/sensor/%s/%s/config", discoveryPrefix, nodeID, id), true, discoveryConfig{
		Name:                s.Name,
		UniqueID:            id,
		StateTopic:          fmt.Sprintf("%s/%s", m.root, s.EntityID),
		JSONAttributesTopic: fmt.Sprintf("%s/%s/attributes", m.root, s.EntityID),
		UnitOfMeasurement:   s.Unit,
		Icon:                s.Icon,
		Device:              m.device(),
	})
}

func (m *MQTT) discoverTracker(s platform.DeviceSighting) {
	m.publishJSON(fmt.Sprintf("%s/device_tracker/%s/%s/config", discoveryPrefix, nodeID, s.DevID), true, discoveryConfig{
		Name:                s.HostName,
		UniqueID:            s.DevID,
		JSONAttributesTopic: fmt.Sprintf("%s/device_tracker/%s", m.root, s.DevID),
		Icon:                s.Icon,
		SourceType:          "gps",
		Device:              m.device(),
	})
}

// encode converts a state value into its mqtt payload
func encode(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (m *MQTT) handle(p util.Param) {
	switch val := p.Val.(type) {
	case EntityState:
		if !m.discovered[val.EntityID] {
			m.discoverSensor(val)
			m.discovered[val.EntityID] = true
		}

		m.publish(fmt.Sprintf("%s/%s", m.root, val.EntityID), true, encode(val.State))
		m.publishJSON(fmt.Sprintf("%s/%s/attributes", m.root, val.EntityID), true, val.Attributes)

	case platform.DeviceSighting:
		key := "device_tracker." + val.DevID
		if !m.discovered[key] {
			m.discoverTracker(val)
			m.discovered[key] = true
		}

		attrs := map[string]interface{}{
			"latitude":  val.GPS.Lat,
			"longitude": val.GPS.Lon,
		}
		for k, v := range val.Attributes {
			attrs[k] = v
		}

		m.publishJSON(fmt.Sprintf("%s/device_tracker/%s", m.root, val.DevID), true, attrs)

	default:
		m.publish(fmt.Sprintf("%s/%s", m.root, p.Key), true, encode(p.Val))
	}
}

// Run starts the MQTT publisher for the values received on the channel
func (m *MQTT) Run(in <-chan util.Param) {
	for p := range in {
		m.handle(p)
	}
}
