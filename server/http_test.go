package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, srv *HTTPd, method, uri string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, uri, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	var res map[string]interface{}
	if rec.Code != http.StatusNotFound && uri != "/api/health" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}

	return rec, res
}

func TestHTTPHealth(t *testing.T) {
	h, _ := newTestHost()
	srv := NewHTTPd(":7070", h, util.NewCache())

	rec, _ := request(t, srv, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHTTPState(t *testing.T) {
	h, _ := newTestHost()
	cache := util.NewCache()
	cache.Add("odometer", util.Param{Key: "odometer", Val: 45000})

	srv := NewHTTPd(":7070", h, cache)

	rec, res := request(t, srv, http.MethodGet, "/api/state")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"odometer": float64(45000)}, res["result"])
}

func TestHTTPEntities(t *testing.T) {
	h, _ := newTestHost()
	h.AddEntities(&sensor{id: "sensor.odometer", state: 45000})

	srv := NewHTTPd(":7070", h, util.NewCache())

	_, res := request(t, srv, http.MethodGet, "/api/entities")
	assert.Equal(t, []interface{}{"sensor.odometer"}, res["result"])

	_, res = request(t, srv, http.MethodGet, "/api/entities/sensor.odometer")
	entity, ok := res["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sensor.odometer", entity["entity_id"])
	assert.Equal(t, float64(45000), entity["state"])
	assert.Equal(t, map[string]interface{}{"state": "ON"}, entity["attributes"])

	rec, _ := request(t, srv, http.MethodGet, "/api/entities/sensor.foo")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPSighting(t *testing.T) {
	h, _ := newTestHost()
	h.See(platform.DeviceSighting{DevID: "ab_123_cd", HostName: "AB-123-CD", GPS: api.Position{Lat: 1, Lon: 2}})

	srv := NewHTTPd(":7070", h, util.NewCache())

	_, res := request(t, srv, http.MethodGet, "/api/sightings/ab_123_cd")
	sighting, ok := res["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "AB-123-CD", sighting["host_name"])
	assert.Equal(t, map[string]interface{}{"lat": float64(1), "lon": float64(2)}, sighting["gps"])

	rec, _ := request(t, srv, http.MethodGet, "/api/sightings/foo")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPService(t *testing.T) {
	h, _ := newTestHost()

	var called int
	h.RegisterService("onstar_component", "update_state", func() error {
		called++
		if called > 1 {
			return errors.New("foo")
		}
		return nil
	})

	srv := NewHTTPd(":7070", h, util.NewCache())

	_, res := request(t, srv, http.MethodGet, "/api/services")
	assert.Equal(t, []interface{}{"onstar_component.update_state"}, res["result"])

	rec, res := request(t, srv, http.MethodPost, "/api/services/onstar_component/update_state")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, res["result"])
	assert.Equal(t, 1, called)

	rec, res = request(t, srv, http.MethodPost, "/api/services/onstar_component/update_state")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "foo", res["error"])

	rec, _ = request(t, srv, http.MethodPost, "/api/services/onstar_component/foo")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
