package testkit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client drives a handler over a real listener, keeping cookies between
// requests and never following redirects.
type Client struct {
	t      testing.TB
	server *httptest.Server
	http   *http.Client
}

// Response is a fully read response.
type Response struct {
	Code     int
	Location string
	Body     []byte
}

// JSON decodes the body into dest.
func (r Response) JSON(t testing.TB, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dest), "decode %s", r.Body)
}

func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &Client{
		t:      t,
		server: srv,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) Get(path string) Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)
	return c.Do(req)
}

func (c *Client) PostForm(path string, form url.Values) Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// Do sends a request built against URL().
func (c *Client) Do(req *http.Request) Response {
	c.t.Helper()
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)

	return Response{Code: res.StatusCode, Location: res.Header.Get("Location"), Body: body}
}

// URL returns the absolute URL of path on the test server.
func (c *Client) URL(path string) string { return c.server.URL + path }

// Login posts credentials to /login and returns the response.
func (c *Client) Login(username, password string) Response {
	c.t.Helper()
	return c.PostForm("/login", url.Values{"username": {username}, "password": {password}})
}
