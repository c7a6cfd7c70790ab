package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evcc-io/onstar/util"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

var log = util.NewLogger("httpd")

type route struct {
	Methods     []string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// HTTPd wraps an http.Server and adds the root router
type HTTPd struct {
	*http.Server
}

// NewHTTPd creates HTTP server with configured routes for the host
func NewHTTPd(url string, host *Host, cache *util.Cache) *HTTPd {
	router := mux.NewRouter().StrictSlash(true)

	// api
	api := router.PathPrefix("/api").Subrouter()
	api.Use(jsonHandler)
	api.Use(handlers.CompressHandler)
	api.Use(handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Accept", "Accept-Language", "Content-Language", "Content-Type", "Origin",
		}),
	))

	routes := map[string]route{
		"health":   {[]string{"GET"}, "/health", healthHandler},
		"state":    {[]string{"GET"}, "/state", stateHandler(cache)},
		"entities": {[]string{"GET"}, "/entities", entitiesHandler(host)},
		"entity":   {[]string{"GET"}, "/entities/{id}", entityHandler(host)},
		"sighting": {[]string{"GET"}, "/sightings/{id}", sightingHandler(host)},
		"services": {[]string{"GET"}, "/services", servicesHandler(host)},
		"service":  {[]string{"POST", "OPTIONS"}, "/services/{domain}/{service}", serviceHandler(host)},
	}

	for _, r := range routes {
		api.Methods(r.Methods...).Path(r.Pattern).Handler(r.HandlerFunc)
	}

	srv := &HTTPd{
		Server: &http.Server{
			Addr:         url,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			ErrorLog:     log.ERROR,
		},
	}
	srv.SetKeepAlivesEnabled(true)

	return srv
}

// Router returns the main router
func (s *HTTPd) Router() *mux.Router {
	return s.Handler.(*mux.Router)
}

func jsonHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		h.ServeHTTP(w, r)
	})
}

func jsonResult(w http.ResponseWriter, res interface{}) {
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"result": res}); err != nil {
		log.ERROR.Println(err)
	}
}

func jsonError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// stateHandler returns the last published values
func stateHandler(cache *util.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := make(map[string]interface{})
		for _, p := range cache.All() {
			res[p.Key] = p.Val
		}

		jsonResult(w, res)
	}
}

func entitiesHandler(host *Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res []string
		for _, e := range host.Entities() {
			res = append(res, e.EntityID())
		}

		jsonResult(w, res)
	}
}

func entityHandler(host *Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		e, ok := host.Entity(id)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		res := map[string]interface{}{
			"entity_id": e.EntityID(),
			"name":      e.Name(),
		}

		if s, ok := e.(interface {
			State() interface{}
			Attributes() map[string]interface{}
		}); ok {
			res["state"] = s.State()
			res["attributes"] = s.Attributes()
		}

		jsonResult(w, res)
	}
}

func sightingHandler(host *Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := host.Sighting(mux.Vars(r)["id"])
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		jsonResult(w, s)
	}
}

func servicesHandler(host *Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResult(w, host.Services())
	}
}

// serviceHandler calls a registered service
func serviceHandler(host *Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		if err := host.CallService(vars["domain"], vars["service"]); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		jsonResult(w, true)
	}
}
