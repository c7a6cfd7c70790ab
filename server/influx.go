package server

import (
	"time"

	"github.com/evcc-io/onstar/util"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxapi "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// InfluxConfig is the database configuration
type InfluxConfig struct {
	URL      string
	Token    string
	Org      string
	Bucket   string
	Interval time.Duration
}

const measurement = "onstar"

// Influx is a influx publisher
type Influx struct {
	log    *util.Logger
	client influxdb2.Client
	writer influxapi.WriteAPI
}

// NewInfluxClient creates new publisher for influx
func NewInfluxClient(conf InfluxConfig) *Influx {
	log := util.NewLogger("influx")

	interval := conf.Interval
	if interval == 0 {
		interval = 30 * time.Second
	}

	options := influxdb2.DefaultOptions().SetFlushInterval(uint(interval.Milliseconds()))
	client := influxdb2.NewClientWithOptions(conf.URL, conf.Token, options)

	writer := client.WriteAPI(conf.Org, conf.Bucket)

	go func() {
		for err := range writer.Errors() {
			log.ERROR.Println(err)
		}
	}()

	return &Influx{
		log:    log,
		client: client,
		writer: writer,
	}
}

// point converts a numeric entity state into a data point
func point(p util.Param, ts time.Time) (*write.Point, bool) {
	s, ok := p.Val.(EntityState)
	if !ok {
		return nil, false
	}

	f, ok := numeric(s.State)
	if !ok {
		return nil, false
	}

	tags := map[string]string{"entity": s.EntityID}
	if s.Unit != "" {
		tags["unit"] = s.Unit
	}

	return influxdb2.NewPoint(measurement, tags, map[string]interface{}{"value": f}, ts), true
}

// Run records the values received on the channel
func (m *Influx) Run(in <-chan util.Param) {
	for p := range in {
		if pt, ok := point(p, time.Now()); ok {
			m.log.TRACE.Printf("write %s", p.Key)
			m.writer.WritePoint(pt)
		}
	}

	m.writer.Flush()
	m.client.Close()
}
