package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"handlescope/internal/domain"
)

// MinBodyRunes is the shortest body accepted as a real profile page
const MinBodyRunes = 200

// authWallMarkers in a final URL mean the site bounced us to a login flow
var authWallMarkers = []string{"login", "signup", "signin", "register"}

// Response is the part of an HTTP exchange the classifier looks at
type Response struct {
	StatusCode int
	FinalURL   *url.URL
	Body       []byte
}

// Verdict is the classification of one response.
// Failure is empty unless the probe should be reported as failed.
type Verdict struct {
	Found    bool
	Verified bool
	Title    string
	Failure  domain.FailureReason
	Detail   string
}

func absent(detail string) Verdict {
	return Verdict{Detail: detail}
}

func failed(reason domain.FailureReason, detail string) Verdict {
	return Verdict{Failure: reason, Detail: detail}
}

// Classifier decides existence from a response
type Classifier struct {
	phrases    *PhraseMatcher
	signatures SignatureSet
}

// NewClassifier creates a classifier using the default soft-404 phrases
func NewClassifier(signatures SignatureSet) *Classifier {
	return NewClassifierWithPhrases(signatures, SoftNotFoundPhrases)
}

// NewClassifierWithPhrases creates a classifier with a custom phrase list
func NewClassifierWithPhrases(signatures SignatureSet, phrases []string) *Classifier {
	if signatures == nil {
		signatures = SignatureSet{}
	}
	return &Classifier{
		phrases:    NewPhraseMatcher(phrases),
		signatures: signatures,
	}
}

// Classify applies the filters for p.Kind to resp
func (c *Classifier) Classify(p domain.PlatformProbe, resp Response) Verdict {
	if p.Kind == domain.ProbeJSONAPI {
		return c.classifyJSON(resp)
	}
	return c.classifyPage(p, resp)
}

func (c *Classifier) classifyJSON(resp Response) Verdict {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return absent("not found")
	case resp.StatusCode != http.StatusOK:
		return failed(domain.FailureNonSuccessStatus, fmt.Sprintf("status %d", resp.StatusCode))
	}

	var payload any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return failed(domain.FailureValidationFailed, fmt.Sprintf("decode body: %v", err))
	}

	switch v := payload.(type) {
	case nil:
		return absent("empty body")
	case map[string]any:
		if len(v) == 0 {
			return absent("empty object")
		}
		if _, ok := v["error"]; ok {
			return absent("error key in body")
		}
		if _, ok := v["errors"]; ok {
			return absent("errors key in body")
		}
	case []any:
		if len(v) == 0 {
			return absent("empty array")
		}
	case string:
		if v == "" {
			return absent("empty string")
		}
	}

	return Verdict{Found: true, Verified: true}
}

func (c *Classifier) classifyPage(p domain.PlatformProbe, resp Response) Verdict {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return absent("not found")
	case resp.StatusCode != http.StatusOK:
		return failed(domain.FailureNonSuccessStatus, fmt.Sprintf("status %d", resp.StatusCode))
	}

	if marker, ok := authWall(resp.FinalURL, p.Username); ok {
		return absent("redirected to " + marker)
	}

	if phrase, ok := c.phrases.Match(resp.Body); ok {
		return absent(fmt.Sprintf("soft not-found phrase %q", phrase))
	}

	if utf8.RuneCount(resp.Body) < MinBodyRunes {
		return absent("body too short")
	}

	var doc *goquery.Document
	if resp.FinalURL != nil {
		if sig, ok := c.signatures.Lookup(resp.FinalURL.Hostname()); ok {
			doc = parseHTML(resp.Body)
			if doc == nil || !sig.Matches(doc, p.Username) {
				return failed(domain.FailureValidationFailed, fmt.Sprintf("signature %q not present", sig.Selector))
			}
		}
	}

	switch p.Kind {
	case domain.ProbeRedirect:
		if landedOnRoot(p.URL, resp.FinalURL) {
			return absent("redirected to site root")
		}
	case domain.ProbeSearchPage:
		if p.Username != "" && !bytes.Contains(bytes.ToLower(resp.Body), []byte(strings.ToLower(p.Username))) {
			return absent("username not mentioned")
		}
	}

	if doc == nil {
		doc = parseHTML(resp.Body)
	}
	return Verdict{Found: true, Title: extractTitle(doc)}
}

// authWall looks for login markers in the final URL once the username's
// own occurrences are removed, so a user called "registerme" still matches.
func authWall(final *url.URL, username string) (string, bool) {
	if final == nil {
		return "", false
	}
	s := strings.ToLower(final.String())
	if username != "" {
		s = strings.ReplaceAll(s, strings.ToLower(username), "")
		s = strings.ReplaceAll(s, strings.ToLower(url.PathEscape(username)), "")
	}
	for _, m := range authWallMarkers {
		if strings.Contains(s, m) {
			return m, true
		}
	}
	return "", false
}

func landedOnRoot(requested string, final *url.URL) bool {
	if final == nil {
		return false
	}
	if final.Path != "" && final.Path != "/" {
		return false
	}
	req, err := url.Parse(requested)
	if err != nil {
		return false
	}
	return req.Path != "" && req.Path != "/"
}

func parseHTML(body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return doc
}

const maxTitleRunes = 200

// extractTitle prefers og:title over the <title> element
func extractTitle(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if strings.TrimSpace(title) == "" {
		title = doc.Find("title").First().Text()
	}
	title = strings.Join(strings.Fields(title), " ")
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = string([]rune(title)[:maxTitleRunes])
	}
	return title
}
