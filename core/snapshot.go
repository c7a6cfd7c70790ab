package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/evcc-io/onstar/api"
	"github.com/mitchellh/copystructure"
)

// Snapshot is the complete set of sensor values captured by one successful fetch.
// It is never modified after creation.
type Snapshot struct {
	values  map[string]interface{}
	updated time.Time
}

// NewSnapshot creates a snapshot from a copy of values
func NewSnapshot(values map[string]interface{}, updated time.Time) *Snapshot {
	return &Snapshot{
		values:  clone(values),
		updated: updated,
	}
}

func clone(values map[string]interface{}) map[string]interface{} {
	if values == nil {
		return make(map[string]interface{})
	}
	return copystructure.Must(copystructure.Copy(values)).(map[string]interface{})
}

// Value returns the value for key and if the key is present
func (s *Snapshot) Value(key string) (interface{}, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the value for key formatted as string
func (s *Snapshot) String(key string) string {
	if v, ok := s.values[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Position returns the vehicle location if present
func (s *Snapshot) Position() *api.Position {
	if pos, ok := s.values[KeyLocalization].(api.Position); ok {
		return &pos
	}
	return nil
}

// Keys returns the snapshot keys in sorted order
func (s *Snapshot) Keys() []string {
	res := make([]string, 0, len(s.values))
	for k := range s.values {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Values returns a copy of the snapshot values
func (s *Snapshot) Values() map[string]interface{} {
	return clone(s.values)
}

// Updated returns the time the snapshot was fetched
func (s *Snapshot) Updated() time.Time {
	return s.updated
}
