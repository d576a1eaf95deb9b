package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescope/internal/domain"
)

func TestExtractURLs(t *testing.T) {
	text := "[+] GitHub: https://github.com/octocat\n" +
		"see (https://gitlab.com/octocat), and https://example.com/a?b=c.\n" +
		"\x1b[32m[+]\x1b[0m Keybase: https://keybase.io/octocat\x1b[0m\n" +
		"ftp://nope.example/x and http:// and \"https://medium.com/@octocat\""

	assert.Equal(t, []string{
		"https://github.com/octocat",
		"https://gitlab.com/octocat",
		"https://example.com/a?b=c",
		"https://keybase.io/octocat",
		"https://medium.com/@octocat",
	}, ExtractURLs(text))
}

func TestLabelFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/octocat":        "Example",
		"https://www.github.com/octocat":     "Github",
		"https://octocat.tumblr.com":         "Tumblr",
		"https://www.example.co.uk/x":        "Example",
		"http://127.0.0.1:8080/x":            "127.0.0.1",
		"https://news.ycombinator.com/user":  "Ycombinator",
		"https://open.spotify.com/user/octo": "Spotify",
	}
	for in, want := range tests {
		assert.Equal(t, want, LabelFromURL(in), in)
	}
}

func TestProfileRecords_DedupPerBatch(t *testing.T) {
	text := "[+] Example: https://example.com/octocat\n" +
		"https://www.example.com/octocat/\n" +
		"https://example.com/octocat?utm=1\n" +
		"https://other.org/octocat\n"

	records := ProfileRecords(text, domain.ToolSource("sherlock"))
	require.Len(t, records, 2)

	assert.Equal(t, "Example", records[0].Platform)
	assert.Equal(t, "https://example.com/octocat", records[0].URL)
	assert.Equal(t, domain.ToolSource("sherlock"), records[0].Source)
	assert.Equal(t, domain.RecordProfileURL, records[0].Kind)
	assert.Equal(t, "Other", records[1].Platform)
}

func TestProfileRecords_Empty(t *testing.T) {
	assert.Empty(t, ProfileRecords("no urls here", domain.ToolSource("sherlock")))
}
