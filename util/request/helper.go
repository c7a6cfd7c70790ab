package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/evcc-io/onstar/util"
	"github.com/evcc-io/onstar/util/transport"
)

// Timeout is the default request timeout used by the Helper
var Timeout = 10 * time.Second

// JSONEncoding specifies application/json
var JSONEncoding = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// StatusError indicates a generic http response code error
type StatusError struct {
	resp *http.Response
}

// NewStatusError create new StatusError for given response
func NewStatusError(resp *http.Response) StatusError {
	return StatusError{resp: resp}
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d (%s)", e.resp.StatusCode, http.StatusText(e.resp.StatusCode))
}

// Response returns the response with the unexpected error
func (e StatusError) Response() *http.Response {
	return e.resp
}

// StatusCode returns the response's status code
func (e StatusError) StatusCode() int {
	return e.resp.StatusCode
}

// Helper provides utility primitives
type Helper struct {
	*http.Client
}

// NewHelper creates http helper for simplified PUT GET logic
func NewHelper(log *util.Logger) *Helper {
	return &Helper{
		Client: NewClient(log),
	}
}

// NewClient creates http client with default transport and request logging
func NewClient(log *util.Logger) *http.Client {
	return &http.Client{
		Timeout: Timeout,
		Transport: &roundTripper{
			log:  log,
			base: transport.Default(),
		},
	}
}

// New builds and request with optional headers
func New(method, uri string, data io.Reader, headers ...map[string]string) (*http.Request, error) {
	req, err := http.NewRequest(method, uri, data)
	if err == nil {
		for _, headers := range headers {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		}
	}

	return req, err
}

// MarshalJSON marshals JSON into an io.Reader
func MarshalJSON(data interface{}) io.Reader {
	if data == nil {
		return nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return &errorReader{err: err}
	}

	return bytes.NewReader(body)
}

type errorReader struct {
	err error
}

func (r *errorReader) Read(p []byte) (int, error) {
	return 0, r.err
}

// ResponseError turns an HTTP status code into an error
func ResponseError(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewStatusError(resp)
	}
	return nil
}

// DoBody executes HTTP request and returns the response body
func (r *Helper) DoBody(req *http.Request) ([]byte, error) {
	resp, err := r.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err == nil {
		err = ResponseError(resp)
	}

	return body, err
}

// DoJSON executes HTTP request and decodes JSON response.
// It returns a StatusError on response codes other than HTTP 2xx.
func (r *Helper) DoJSON(req *http.Request, res interface{}) error {
	resp, err := r.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = ResponseError(resp); err == nil {
		err = json.NewDecoder(resp.Body).Decode(&res)
	}

	return err
}

// GetJSON executes HTTP GET request and decodes JSON response.
func (r *Helper) GetJSON(url string, res interface{}) error {
	req, err := New(http.MethodGet, url, nil, JSONEncoding)
	if err == nil {
		err = r.DoJSON(req, &res)
	}
	return err
}

type roundTripper struct {
	log  *util.Logger
	base http.RoundTripper
}

func (r *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r.log.TRACE.Printf("%s %s", req.Method, req.URL.String())

	if body, err := httputil.DumpRequestOut(req, true); err == nil {
		r.log.TRACE.Println(strings.TrimSpace(redact(string(body))))
	}

	resp, err := r.base.RoundTrip(req)

	if resp != nil {
		if body, err := httputil.DumpResponse(resp, true); err == nil {
			r.log.TRACE.Println(strings.TrimSpace(string(body)))
		}
	}

	return resp, err
}

// redact hides authorization headers from trace output
func redact(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: ***"
		}
	}
	return strings.Join(lines, "\n")
}
