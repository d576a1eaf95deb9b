package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescope/internal/domain"
	"handlescope/internal/ratelimit"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat","id":583231,"type":"User"}`))
	})
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/octocat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profilePage("octocat", `<meta property="og:title" content="octocat profile">`)))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	})
	mux.HandleFunc("/soft", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profilePage("Oops", "<h2>User not found</h2>")))
	})
	mux.HandleFunc("/bounce", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/accounts/login?next=/bounce", http.StatusFound)
	})
	mux.HandleFunc("/accounts/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profilePage("Log in", "")))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/headers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent || r.Header.Get("DNT") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(profilePage("headers", "")))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProber(cfg Config) *Prober {
	return New(cfg, ratelimit.New(0), NewClassifier(nil), nil)
}

func TestProber_JSONAPIVerified(t *testing.T) {
	srv := newTestServer(t)
	p := newTestProber(DefaultConfig())

	pp := domain.PlatformProbe{
		Label: "GitHub", Username: "octocat", Kind: domain.ProbeJSONAPI,
		URL: srv.URL + "/octocat", APIURL: srv.URL + "/users/octocat",
	}
	out := p.Probe(context.Background(), pp)

	require.NotNil(t, out.Record)
	assert.Nil(t, out.Failure)
	assert.True(t, out.Record.IsVerified())
	assert.Equal(t, srv.URL+"/octocat", out.Record.URL)
	assert.Equal(t, domain.SourceDirect, out.Record.Source)
	assert.Equal(t, domain.RecordProfileURL, out.Record.Kind)
	require.NotNil(t, out.Record.StatusCode)
	assert.Equal(t, 200, *out.Record.StatusCode)
	require.NotNil(t, out.Record.ContentLength)
	assert.Positive(t, *out.Record.ContentLength)
}

func TestProber_JSONAPINotFound(t *testing.T) {
	srv := newTestServer(t)
	p := newTestProber(DefaultConfig())

	pp := domain.PlatformProbe{
		Label: "GitHub", Username: "ghost", Kind: domain.ProbeJSONAPI,
		URL: srv.URL + "/ghost", APIURL: srv.URL + "/users/ghost",
	}
	out := p.Probe(context.Background(), pp)
	assert.Nil(t, out.Record)
	assert.Nil(t, out.Failure)
}

func TestProber_Standard(t *testing.T) {
	srv := newTestServer(t)
	p := newTestProber(DefaultConfig())

	tests := []struct {
		path       string
		wantFound  bool
		wantReason domain.FailureReason
	}{
		{"/octocat", true, ""},
		{"/missing", false, ""},
		{"/broken", false, domain.FailureNonSuccessStatus},
		{"/short", false, ""},
		{"/soft", false, ""},
		{"/bounce", false, ""},
		{"/headers", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out := p.Probe(context.Background(), standardProbe("Site", srv.URL+tt.path))
			assert.Equal(t, tt.wantFound, out.Found())
			if tt.wantReason == "" {
				assert.Nil(t, out.Failure)
				return
			}
			require.NotNil(t, out.Failure)
			assert.Equal(t, tt.wantReason, out.Failure.Reason)
		})
	}
}

func TestProber_StatusFailureCarriesCode(t *testing.T) {
	srv := newTestServer(t)
	p := newTestProber(DefaultConfig())

	out := p.Probe(context.Background(), standardProbe("Site", srv.URL+"/broken"))
	require.NotNil(t, out.Failure)
	require.NotNil(t, out.Failure.StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, *out.Failure.StatusCode)
	assert.Equal(t, "Site", out.Failure.Platform)
}

func TestProber_Title(t *testing.T) {
	srv := newTestServer(t)
	p := newTestProber(DefaultConfig())

	out := p.Probe(context.Background(), standardProbe("Site", srv.URL+"/octocat"))
	require.NotNil(t, out.Record)
	assert.Equal(t, "octocat profile", out.Record.Title)
}

func TestProber_Timeout(t *testing.T) {
	srv := newTestServer(t)
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	p := newTestProber(cfg)

	out := p.Probe(context.Background(), standardProbe("Slow", srv.URL+"/slow"))
	assert.Nil(t, out.Record)
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureTimeout, out.Failure.Reason)
}

func TestProber_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL + "/octocat"
	srv.Close()

	p := newTestProber(DefaultConfig())
	out := p.Probe(context.Background(), standardProbe("Gone", target))
	assert.Nil(t, out.Record)
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureConnectionError, out.Failure.Reason)
	assert.NotEmpty(t, out.Failure.Detail)
}

func TestProber_InvalidURL(t *testing.T) {
	p := newTestProber(DefaultConfig())
	out := p.Probe(context.Background(), standardProbe("Bad", "not a url"))
	require.NotNil(t, out.Failure)
	assert.Equal(t, domain.FailureValidationFailed, out.Failure.Reason)
}

func TestProber_MaxBodyBytes(t *testing.T) {
	srv := newTestServer(t)
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 64
	p := newTestProber(cfg)

	// the truncated page falls under the minimum length
	out := p.Probe(context.Background(), standardProbe("Site", srv.URL+"/octocat"))
	assert.False(t, out.Found())
}
