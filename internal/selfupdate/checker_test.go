package selfupdate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adhyaya/adhyaya/internal/logger"
)

// githubAPI serves /repos/{owner}/{repo}/releases[/latest] for one repository.
func githubAPI(t *testing.T, repo, latest, list string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/"+repo+"/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(latest))
	})
	mux.HandleFunc("GET /repos/"+repo+"/releases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(list))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func latestJSON(tag string) string {
	return `{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer release", "v1.2.0", "v1.3.0", true},
		{"same release", "v1.3.0", "v1.3.0", false},
		{"older release", "v2.0.0", "v1.3.0", false},
		{"bare version", "1.2.0", "v1.2.1", true},
		{"dev build", "(devel)", "v1.3.0", false},
		{"untagged release", "v1.0.0", "nightly", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := githubAPI(t, "adhyaya/adhyaya", latestJSON(tt.latest), "[]")

			res, err := NewChecker(WithBaseURL(server.URL)).Check(t.Context(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, tt.latest, res.LatestVersion)
			assert.Equal(t, "https://example.com/"+tt.latest, res.ReleaseURL)
			assert.Equal(t, "adhyaya/adhyaya", res.Repository)
		})
	}
}

func TestCheckPrereleaseChannel(t *testing.T) {
	list := `[
		{"tag_name":"v1.4.0-rc.1","prerelease":true,"html_url":"https://example.com/rc"},
		{"tag_name":"v1.5.0","draft":true},
		{"tag_name":"v1.3.2","html_url":"https://example.com/stable"},
		{"tag_name":"docs-site"}
	]`
	server := githubAPI(t, "adhyaya/adhyaya", latestJSON("v1.3.2"), list)

	stable, err := NewChecker(WithBaseURL(server.URL)).Check(t.Context(), &CheckInput{Version: "v1.3.2"})
	require.NoError(t, err)
	assert.False(t, stable.UpdateAvailable)

	pre, err := NewChecker(WithBaseURL(server.URL), WithChannel(ChannelPrerelease)).
		Check(t.Context(), &CheckInput{Version: "v1.3.2"})
	require.NoError(t, err)
	assert.True(t, pre.UpdateAvailable)
	assert.Equal(t, "v1.4.0-rc.1", pre.LatestVersion)
	assert.Equal(t, ChannelPrerelease, pre.Channel)
}

func TestCheckCustomRepository(t *testing.T) {
	server := githubAPI(t, "acme/adhyaya-fork", latestJSON("v0.2.0"), "[]")

	checker := NewChecker(WithBaseURL(server.URL), WithRepository("acme", "adhyaya-fork"))
	res, err := checker.Check(t.Context(), &CheckInput{Version: "v0.1.0"})
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "acme/adhyaya-fork", res.Repository)

	// Blank parts fall back to the default repository.
	assert.Equal(t, "adhyaya/adhyaya", NewChecker(WithRepository("", "")).Repository())
}

func TestCheckFailureIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	_, err := NewChecker(WithBaseURL(server.URL), WithLogger(log)).Check(t.Context(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")

	entries := logs.FilterMessage("release check failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "adhyaya/adhyaya", entries[0].ContextMap()["repo"])
}

func TestCheckResultSummary(t *testing.T) {
	tests := []struct {
		name string
		res  CheckResult
		want string
	}{
		{
			"update available",
			CheckResult{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", ReleaseURL: "https://example.com/v1.1.0", UpdateAvailable: true},
			"Update available: v1.0.0 → v1.1.0\nhttps://example.com/v1.1.0",
		},
		{
			"up to date",
			CheckResult{CurrentVersion: "v1.1.0", LatestVersion: "v1.1.0"},
			"Up to date (v1.1.0).",
		},
		{
			"dev build",
			CheckResult{Repository: "adhyaya/adhyaya", Channel: ChannelStable, CurrentVersion: "(devel)", LatestVersion: "v1.1.0"},
			"Development build; the latest stable release of adhyaya/adhyaya is v1.1.0.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.Summary())
		})
	}
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{"": ChannelStable, "Stable": ChannelStable, " prerelease ": ChannelPrerelease} {
		got, err := ParseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseChannel("nightly")
	assert.Error(t, err)
}
