package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skewt/internal/config"
	"github.com/couchcryptid/skewt/internal/sounding"
)

const uwyoPage = `<HTML>
<TITLE>University of Wyoming - Radiosonde Data</TITLE>
<BODY BGCOLOR="white">
<H2>94975 YMHB Hobart Airport Observations at 00Z 02 Jul 2013</H2>
<PRE>
-----------------------------------------------------------------------------
   PRES   HGHT   TEMP   DWPT   RELH   MIXR   DRCT   SKNT   THTA   THTE   THTV
    hPa     m      C      C      %    g/kg    deg   knot     K      K      K
-----------------------------------------------------------------------------
 1004.0     27   17.2   15.8     92  11.34    320     10  291.0  323.6  293.0
  850.0   1457    8.0    2.0     66   5.36    300     15  295.9  312.0  296.9
  500.0   5572  -16.5  -24.5     50   0.90    270     35  309.2  312.4  309.4
</PRE><H3>Station information and sounding indices</H3><PRE>
Station identifier: YMHB
</PRE>
</BODY></HTML>
`

func uwyoServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &query
}

func webRuntime(baseURL string) config.Runtime {
	return config.Runtime{UWyoBaseURL: baseURL, HTTPTimeout: 5 * time.Second}
}

func TestUWyoWebRead(t *testing.T) {
	srv, query := uwyoServer(t, http.StatusOK, uwyoPage)

	r, err := New("uwyoweb", Options{Station: "94975", Time: "2013070200"}, webRuntime(srv.URL), discardLogger())
	require.NoError(t, err)

	snd, err := r.Read(context.Background())
	require.NoError(t, err)

	t.Run("query parameters", func(t *testing.T) {
		assert.Equal(t, "TEXT:LIST", query.Get("TYPE"))
		assert.Equal(t, "94975", query.Get("STNM"))
		assert.Equal(t, "2013", query.Get("YEAR"))
		assert.Equal(t, "07", query.Get("MONTH"))
		assert.Equal(t, "0200", query.Get("FROM"))
		assert.Equal(t, "0200", query.Get("TO"))
	})

	t.Run("sounding content", func(t *testing.T) {
		assert.Equal(t, "uwyoweb", snd.Source)
		assert.Equal(t, "94975", snd.StationID)
		assert.Equal(t, "YMHB Hobart Airport", snd.StationName)
		require.Len(t, snd.Levels, 3)
		assert.Equal(t, 1004.0, snd.Levels[0].Pressure)
		assert.Equal(t, 35.0, snd.Levels[2].WindSpeed)
	})
}

func TestUWyoWebDefaultTime(t *testing.T) {
	sounding.SetClock(clockwork.NewFakeClockAt(time.Date(2013, 7, 2, 13, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { sounding.SetClock(nil) })

	srv, query := uwyoServer(t, http.StatusOK, uwyoPage)

	r, err := New("uwyoweb", Options{Station: "94975"}, webRuntime(srv.URL), discardLogger())
	require.NoError(t, err)

	_, err = r.Read(context.Background())
	require.NoError(t, err)

	// 13:30Z minus the upload-lag hour lands in the 12Z cycle.
	assert.Equal(t, "0212", query.Get("FROM"))
	assert.Equal(t, "0212", query.Get("TO"))
}

func TestUWyoWebErrors(t *testing.T) {
	t.Run("bad time flag", func(t *testing.T) {
		r, err := New("uwyoweb", Options{Station: "94975", Time: "tomorrow"}, webRuntime("http://unused"), discardLogger())
		require.NoError(t, err)
		_, err = r.Read(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "YYYYMMDDHH")
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := uwyoServer(t, http.StatusServiceUnavailable, "down for maintenance")
		r, err := New("uwyoweb", Options{Station: "94975", Time: "2013070200"}, webRuntime(srv.URL), discardLogger())
		require.NoError(t, err)
		_, err = r.Read(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("page without data", func(t *testing.T) {
		srv, _ := uwyoServer(t, http.StatusOK, "<HTML><BODY><H2>Sorry, the server is too busy</H2></BODY></HTML>")
		r, err := New("uwyoweb", Options{Station: "94975", Time: "2013070200"}, webRuntime(srv.URL), discardLogger())
		require.NoError(t, err)
		_, err = r.Read(context.Background())
		assert.Error(t, err)
	})
}

func TestLatestSynoptic(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "afternoon picks 12Z",
			now:  time.Date(2013, 7, 2, 18, 0, 0, 0, time.UTC),
			want: time.Date(2013, 7, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "morning picks 00Z",
			now:  time.Date(2013, 7, 2, 6, 0, 0, 0, time.UTC),
			want: time.Date(2013, 7, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "just past 12Z still 00Z within the lag hour",
			now:  time.Date(2013, 7, 2, 12, 30, 0, 0, time.UTC),
			want: time.Date(2013, 7, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "just past midnight rolls back a day",
			now:  time.Date(2013, 7, 2, 0, 30, 0, 0, time.UTC),
			want: time.Date(2013, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, latestSynoptic(tt.now))
		})
	}
}
