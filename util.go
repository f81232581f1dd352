package growthbook

import (
	"net/url"
	"strconv"
)

// getQueryStringOverride inspects the current page URL's query string for
// an explicit variation override for the given experiment key, e.g.
// "?my-experiment=1" forces variation index 1.
func getQueryStringOverride(key string, rawURL *url.URL, numVariations int) (int, bool) {
	if rawURL == nil {
		return 0, false
	}
	qs := rawURL.Query()
	v := qs.Get(key)
	if v == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 || idx >= numVariations {
		return 0, false
	}
	return idx, true
}

// if0 returns fallback when n is the zero value, else n. Used for fields
// like hashVersion where 0 means "not set, default to 1".
func if0(n int, fallback int) int {
	if n == 0 {
		return fallback
	}
	return n
}
