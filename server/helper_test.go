package server

import (
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/util"
)

type sensor struct {
	id      string
	state   interface{}
	polled  bool
	refresh int
}

var _ platform.SensorEntity = (*sensor)(nil)

func (s *sensor) EntityID() string { return s.id }
func (s *sensor) Name() string { return "Sensor " + s.id }
func (s *sensor) ShouldPoll() bool { return s.polled }
func (s *sensor) Refresh() { s.refresh++ }
func (s *sensor) State() interface{} { return s.state }
func (s *sensor) Unit() string { return "km" }
func (s *sensor) Icon() string { return "mdi:car" }
func (s *sensor) Attributes() map[string]interface{} { return map[string]interface{}{"state": "ON"} }

// newTestHost returns a host with a buffered output channel
func newTestHost() (*Host, chan util.Param) {
	out := make(chan util.Param, 100)
	return NewHost(out), out
}

func drain(out chan util.Param) []util.Param {
	var res []util.Param
	for {
		select {
		case p := <-out:
			res = append(res, p)
		default:
			return res
		}
	}
}
