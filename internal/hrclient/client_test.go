package hrclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path   string
	query  string
	header http.Header
	form   map[string]string
	json   map[string]string
}

type recorder struct {
	calls atomic.Int32
	reqs  chan captured
}

func newTestServer(t *testing.T, status int) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{reqs: make(chan captured, 4)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls.Add(1)
		got := captured{
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
		}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			_ = json.NewDecoder(r.Body).Decode(&got.json)
		} else if err := r.ParseMultipartForm(1 << 20); err == nil {
			got.form = make(map[string]string)
			for k, v := range r.MultipartForm.Value {
				got.form[k] = v[0]
			}
		}
		rec.reqs <- got
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestCheckInMultipart(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK)

	c := New(Config{
		CheckInURL:  srv.URL + "/AttendanceAction.zp?mode=punchIn",
		CheckOutURL: srv.URL + "/AttendanceAction.zp?mode=punchOut",
		Form: Form{
			Conreqcsr: "token",
			URLMode:   "myspace",
			Latitude:  "12.97",
			Longitude: "77.59",
		},
		Referer: "https://people.example.com/zp",
		Headers: map[string]string{"Cookie": "session=abc"},
	})

	require.NoError(t, c.CheckIn(context.Background()))

	got := <-rec.reqs
	assert.Equal(t, int32(1), rec.calls.Load())
	assert.Equal(t, "/AttendanceAction.zp", got.path)
	assert.Equal(t, "mode=punchIn", got.query)
	assert.Equal(t, "*/*", got.header.Get("Accept"))
	assert.Equal(t, "XMLHttpRequest", got.header.Get("X-Requested-With"))
	assert.Equal(t, "https://people.example.com/zp", got.header.Get("Referer"))
	assert.Equal(t, "session=abc", got.header.Get("Cookie"))
	assert.Equal(t, map[string]string{
		"conreqcsr": "token",
		"urlMode":   "myspace",
		"latitude":  "12.97",
		"longitude": "77.59",
		"accuracy":  "",
	}, got.form)
}

func TestCheckOutHitsCheckOutURL(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusNoContent)

	c := New(Config{
		CheckInURL:  srv.URL + "/in",
		CheckOutURL: srv.URL + "/out",
	})

	require.NoError(t, c.CheckOut(context.Background()))
	got := <-rec.reqs
	assert.Equal(t, "/out", got.path)
	assert.Len(t, got.form, 5)
}

func TestCheckInJSON(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated)
	fixed := time.Date(2026, 10, 17, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	c := New(Config{
		CheckInURL: srv.URL + "/checkin",
		Payload:    PayloadJSON,
	}, WithClock(func() time.Time { return fixed }))

	require.NoError(t, c.CheckIn(context.Background()))
	got := <-rec.reqs
	assert.Equal(t, map[string]string{"timestamp": "2026-10-17T04:00:00.000Z"}, got.json)
	assert.Empty(t, got.header.Get("X-Requested-With"))
}

func TestCheckOutStaysMultipartInJSONMode(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK)

	c := New(Config{
		CheckInURL:  srv.URL + "/checkin",
		CheckOutURL: srv.URL + "/checkout",
		Payload:     PayloadJSON,
		Form:        Form{URLMode: "myspace"},
	})

	require.NoError(t, c.CheckOut(context.Background()))
	got := <-rec.reqs
	assert.Equal(t, "/checkout", got.path)
	assert.Nil(t, got.json)
	assert.Equal(t, "XMLHttpRequest", got.header.Get("X-Requested-With"))
	require.Len(t, got.form, 5)
	assert.Equal(t, "myspace", got.form["urlMode"])
}

func TestNonSuccessStatus(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusInternalServerError)

	c := New(Config{CheckInURL: srv.URL})

	err := c.CheckIn(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{CheckOutURL: url, Timeout: time.Second})

	err := c.CheckOut(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestUnknownPayload(t *testing.T) {
	c := New(Config{CheckInURL: "http://127.0.0.1:1", Payload: "xml"})
	require.ErrorIs(t, c.CheckIn(context.Background()), ErrUnknownPayload)
}

func TestFormFieldsNeverMissing(t *testing.T) {
	fields := Form{}.Fields()
	for _, key := range []string{"conreqcsr", "urlMode", "latitude", "longitude", "accuracy"} {
		v, ok := fields[key]
		assert.True(t, ok, key)
		assert.Empty(t, v)
	}
}
