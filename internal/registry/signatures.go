package registry

import "handlescope/internal/probe"

// defaultSignatures confirm profile pages on hosts that serve a generic
// 200 page for missing users. Hosts not listed here are accepted as is.
var defaultSignatures = []probe.Signature{
	{Host: "github.com", Selector: `meta[property="profile:username"]`, Contains: probe.UsernamePlaceholder},
	{Host: "medium.com", Selector: `meta[property="og:type"]`, Contains: "profile"},
	{Host: "keybase.io", Selector: "title", Contains: probe.UsernamePlaceholder},
	{Host: "letterboxd.com", Selector: `meta[property="og:type"]`, Contains: "profile"},
	{Host: "soundcloud.com", Selector: `meta[property="og:type"]`, Contains: "profile"},
}
