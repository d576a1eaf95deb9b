package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescope/internal/domain"
	"handlescope/internal/probe"
)

func TestDefault_Valid(t *testing.T) {
	r := Default()
	assert.Greater(t, r.Len(), 100)

	seen := make(map[string]bool)
	for _, p := range r.Platforms() {
		assert.False(t, seen[p.Label], "duplicate label %s", p.Label)
		seen[p.Label] = true
		assert.NoError(t, p.Validate())
	}
}

func TestBuild_Substitutes(t *testing.T) {
	r := Default()
	probes := r.Build("octocat")
	require.Len(t, probes, r.Len())

	for _, pp := range probes {
		assert.NotContains(t, pp.URL, Placeholder, pp.Label)
		assert.NotContains(t, pp.APIURL, Placeholder, pp.Label)
		assert.Equal(t, "octocat", pp.Username)
		assert.NoError(t, pp.Validate(), pp.Label)
	}

	gh, ok := r.Get("GitHub")
	require.True(t, ok)
	pp := gh.Resolve("octocat")
	assert.Equal(t, domain.ProbeJSONAPI, pp.Kind)
	assert.Equal(t, "https://github.com/octocat", pp.URL)
	assert.Equal(t, "https://api.github.com/users/octocat", pp.Target())
}

func TestBuild_RegistryOrder(t *testing.T) {
	r, err := New([]Platform{
		{Label: "B", URL: "https://b.example/{username}"},
		{Label: "A", URL: "https://a.example/{username}"},
	}, nil)
	require.NoError(t, err)

	probes := r.Build("x")
	require.Len(t, probes, 2)
	assert.Equal(t, "B", probes[0].Label)
	assert.Equal(t, "A", probes[1].Label)
	assert.Equal(t, domain.ProbeStandard, probes[0].Kind)
}

func TestSubstitute_Escapes(t *testing.T) {
	assert.Equal(t, "https://x.example/a%20b", Substitute("https://x.example/{username}", "a b"))
	assert.Equal(t, "https://x.example/a%2Fb", Substitute("https://x.example/{username}", "a/b"))
	assert.Equal(t, "https://x.example/octo.cat", Substitute("https://x.example/{username}", "octo.cat"))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New([]Platform{
		{Label: "A", URL: "https://a.example/{username}"},
		{Label: "A", URL: "https://a2.example/{username}"},
	}, nil)
	assert.Error(t, err)

	_, err = New([]Platform{{Label: "A", URL: "https://a.example/"}}, nil)
	assert.Error(t, err)

	_, err = New([]Platform{{Label: "A", URL: "https://a.example/{username}", Kind: domain.ProbeJSONAPI}}, nil)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	r, err := New([]Platform{
		{Label: "A", URL: "https://a.example/{username}"},
		{Label: "B", URL: "https://b.example/{username}"},
		{Label: "C", URL: "https://c.example/{username}"},
	}, nil)
	require.NoError(t, err)

	err = r.Apply(&Overlay{
		Platforms: []Platform{
			{Label: "B", URL: "https://b2.example/u/{username}", Kind: domain.ProbeRedirect},
			{Label: "D", URL: "https://d.example/{username}"},
		},
		Signatures: []probe.Signature{{Host: "d.example", Selector: "h1"}},
		Disabled:   []string{"a"},
	})
	require.NoError(t, err)

	var labels []string
	for _, p := range r.Platforms() {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"B", "C", "D"}, labels)

	b, ok := r.Get("B")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(b.URL, "https://b2.example"))
	assert.Equal(t, domain.ProbeRedirect, b.ProbeKind())

	_, ok = r.Signatures().Lookup("www.d.example")
	assert.True(t, ok)
}

func TestApply_Invalid(t *testing.T) {
	r := Default()
	assert.Error(t, r.Apply(&Overlay{Platforms: []Platform{{Label: "X"}}}))
	assert.Error(t, r.Apply(&Overlay{Signatures: []probe.Signature{{Host: "x"}}}))
	assert.NoError(t, r.Apply(nil))
}
