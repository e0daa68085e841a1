package dearrow

import "net/url"

// ExtractVideoID pulls the canonical video identifier out of a watch
// link, which carries it in the `v` query parameter. A malformed URL
// or a missing parameter is a valid no-op case for the entry, not a
// fault, so only an ok flag is returned.
func ExtractVideoID(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}

	id := u.Query().Get("v")
	if id == "" {
		return "", false
	}

	return id, true
}
