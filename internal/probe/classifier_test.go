package probe

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescope/internal/domain"
)

// profilePage returns an HTML page comfortably above MinBodyRunes
func profilePage(title, extra string) string {
	return "<html><head><title>" + title + "</title></head><body>" +
		extra + "<p>" + strings.Repeat("Lorem ipsum dolor sit amet. ", 12) + "</p></body></html>"
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func standardProbe(label, raw string) domain.PlatformProbe {
	return domain.PlatformProbe{Label: label, Username: "octocat", URL: raw, Kind: domain.ProbeStandard}
}

func TestClassify_Page(t *testing.T) {
	c := NewClassifier(nil)
	p := standardProbe("Example", "https://example.com/octocat")

	tests := []struct {
		name      string
		status    int
		finalURL  string
		body      string
		wantFound bool
		wantFail  domain.FailureReason
	}{
		{"found", 200, "https://example.com/octocat", profilePage("octocat", ""), true, ""},
		{"404 is absent", 404, "https://example.com/octocat", profilePage("x", ""), false, ""},
		{"500 fails", 500, "https://example.com/octocat", "", false, domain.FailureNonSuccessStatus},
		{"403 fails", 403, "https://example.com/octocat", "", false, domain.FailureNonSuccessStatus},
		{"login redirect", 200, "https://example.com/login?next=/octocat", profilePage("Log in", ""), false, ""},
		{"signup redirect", 200, "https://example.com/accounts/signup", profilePage("Join", ""), false, ""},
		{"soft 404", 200, "https://example.com/octocat", profilePage("Oops", "<h1>User Not Found</h1>"), false, ""},
		{"soft 404 apostrophe", 200, "https://example.com/octocat", profilePage("Oops", "Sorry, this page isn't available."), false, ""},
		{"short body", 200, "https://example.com/octocat", "<html>hi</html>", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(p, Response{
				StatusCode: tt.status,
				FinalURL:   mustURL(t, tt.finalURL),
				Body:       []byte(tt.body),
			})
			assert.Equal(t, tt.wantFound, v.Found)
			assert.Equal(t, tt.wantFail, v.Failure)
		})
	}
}

func TestClassify_UsernameContainingMarker(t *testing.T) {
	c := NewClassifier(nil)
	p := domain.PlatformProbe{Label: "Example", Username: "registerme", URL: "https://example.com/registerme", Kind: domain.ProbeStandard}

	v := c.Classify(p, Response{
		StatusCode: 200,
		FinalURL:   mustURL(t, "https://example.com/registerme"),
		Body:       []byte(profilePage("registerme", "")),
	})
	assert.True(t, v.Found)
}

func TestClassify_ShortBodyCountsRunes(t *testing.T) {
	c := NewClassifier(nil)
	p := standardProbe("Example", "https://example.com/octocat")

	// 150 three-byte runes: above 200 bytes but below 200 characters
	body := strings.Repeat("界", 150)
	v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(body)})
	assert.False(t, v.Found)

	body = strings.Repeat("界", MinBodyRunes)
	v = c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(body)})
	assert.True(t, v.Found)
}

func TestClassify_Signature(t *testing.T) {
	sigs := NewSignatureSet(Signature{
		Host:     "github.com",
		Selector: `meta[property="profile:username"]`,
		Contains: UsernamePlaceholder,
	})
	c := NewClassifier(sigs)
	p := standardProbe("GitHub", "https://github.com/octocat")

	t.Run("match", func(t *testing.T) {
		body := profilePage("octocat", `<meta property="profile:username" content="octocat">`)
		v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, "https://www.github.com/octocat"), Body: []byte(body)})
		assert.True(t, v.Found)
	})

	t.Run("missing", func(t *testing.T) {
		body := profilePage("GitHub", "")
		v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, "https://github.com/octocat"), Body: []byte(body)})
		assert.False(t, v.Found)
		assert.Equal(t, domain.FailureValidationFailed, v.Failure)
	})

	t.Run("other user", func(t *testing.T) {
		body := profilePage("x", `<meta property="profile:username" content="someoneelse">`)
		v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, "https://github.com/octocat"), Body: []byte(body)})
		assert.Equal(t, domain.FailureValidationFailed, v.Failure)
	})

	t.Run("unlisted host accepted", func(t *testing.T) {
		body := profilePage("octocat", "")
		other := standardProbe("Example", "https://example.com/octocat")
		v := c.Classify(other, Response{StatusCode: 200, FinalURL: mustURL(t, other.URL), Body: []byte(body)})
		assert.True(t, v.Found)
	})
}

func TestClassify_Redirect(t *testing.T) {
	c := NewClassifier(nil)
	p := domain.PlatformProbe{Label: "Site", Username: "octocat", URL: "https://site.example/u/octocat", Kind: domain.ProbeRedirect}

	v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, "https://site.example/"), Body: []byte(profilePage("Home", ""))})
	assert.False(t, v.Found)

	v = c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, "https://site.example/u/octocat"), Body: []byte(profilePage("octocat", ""))})
	assert.True(t, v.Found)
}

func TestClassify_SearchPage(t *testing.T) {
	c := NewClassifier(nil)
	p := domain.PlatformProbe{Label: "Search", Username: "OctoCat", URL: "https://search.example/q/OctoCat", Kind: domain.ProbeSearchPage}

	v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(profilePage("Results", "nothing here"))})
	assert.False(t, v.Found)

	v = c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(profilePage("Results", "gamertag octocat"))})
	assert.True(t, v.Found)
}

func TestClassify_JSONAPI(t *testing.T) {
	c := NewClassifier(nil)
	p := domain.PlatformProbe{
		Label: "GitHub", Username: "octocat", Kind: domain.ProbeJSONAPI,
		URL: "https://github.com/octocat", APIURL: "https://api.github.com/users/octocat",
	}

	tests := []struct {
		name         string
		status       int
		body         string
		wantFound    bool
		wantVerified bool
		wantFail     domain.FailureReason
	}{
		{"found", 200, `{"login":"octocat","id":1}`, true, true, ""},
		{"error key", 200, `{"error":"Not Found"}`, false, false, ""},
		{"errors key", 200, `{"errors":[{"message":"nope"}]}`, false, false, ""},
		{"empty object", 200, `{}`, false, false, ""},
		{"null", 200, `null`, false, false, ""},
		{"array", 200, `[{"id":1}]`, true, true, ""},
		{"empty array", 200, `[]`, false, false, ""},
		{"404", 404, `{"message":"Not Found"}`, false, false, ""},
		{"rate limited", 429, `{}`, false, false, domain.FailureNonSuccessStatus},
		{"undecodable", 200, `<html>`, false, false, domain.FailureValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(p, Response{StatusCode: tt.status, FinalURL: mustURL(t, p.APIURL), Body: []byte(tt.body)})
			assert.Equal(t, tt.wantFound, v.Found)
			assert.Equal(t, tt.wantVerified, v.Verified)
			assert.Equal(t, tt.wantFail, v.Failure)
		})
	}
}

func TestClassify_Title(t *testing.T) {
	c := NewClassifier(nil)
	p := standardProbe("Example", "https://example.com/octocat")

	body := profilePage("Plain  Title", `<meta property="og:title" content="The Octocat">`)
	v := c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(body)})
	require.True(t, v.Found)
	assert.Equal(t, "The Octocat", v.Title)

	body = profilePage("Plain \n  Title", "")
	v = c.Classify(p, Response{StatusCode: 200, FinalURL: mustURL(t, p.URL), Body: []byte(body)})
	require.True(t, v.Found)
	assert.Equal(t, "Plain Title", v.Title)
}
