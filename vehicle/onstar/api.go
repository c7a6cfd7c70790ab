package onstar

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/evcc-io/onstar/util"
	"github.com/evcc-io/onstar/util/request"
	"github.com/evcc-io/onstar/util/transport"
	"golang.org/x/oauth2"
)

// ApiURI is the default OnStar api endpoint
const ApiURI = "https://api.onstar.opel.com/api/v1"

const userAgent = "myOpel/5.0"

// API is the OnStar telematics api
type API struct {
	*request.Helper
	baseURI string
	pin     string
}

// NewAPI creates a new OnStar api client. The pin is only sent with location requests.
func NewAPI(log *util.Logger, baseURI string, identity oauth2.TokenSource, pin string) *API {
	v := &API{
		Helper:  request.NewHelper(log),
		baseURI: strings.TrimSuffix(baseURI, "/"),
		pin:     pin,
	}

	// replace client transport with authenticated transport
	v.Client.Transport = &oauth2.Transport{
		Source: identity,
		Base: &transport.Decorator{
			Decorator: func(req *http.Request) error {
				req.Header.Set("User-Agent", userAgent)
				return nil
			},
			Base: v.Client.Transport,
		},
	}

	return v
}

// Refresh requests the vehicle to report its current state
func (v *API) Refresh() error {
	uri := fmt.Sprintf("%s/vehicle/refresh", v.baseURI)

	req, err := request.New(http.MethodPost, uri, nil, request.JSONEncoding)
	if err == nil {
		_, err = v.DoBody(req)
	}

	return err
}

// Diagnostics implements the /vehicle/diagnostics api
func (v *API) Diagnostics() (DiagnosticsResponse, error) {
	var res DiagnosticsResponse

	uri := fmt.Sprintf("%s/vehicle/diagnostics", v.baseURI)
	err := v.GetJSON(uri, &res)

	return res, err
}

// Location implements the /vehicle/location api
func (v *API) Location() (LocationResponse, error) {
	var res LocationResponse

	uri := fmt.Sprintf("%s/vehicle/location", v.baseURI)
	req, err := request.New(http.MethodGet, uri, nil, request.JSONEncoding, map[string]string{
		"X-Pin": v.pin,
	})
	if err == nil {
		err = v.DoJSON(req, &res)
	}

	return res, err
}
