// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package logging

import (
	"net/url"
	"strings"
)

// sensitiveQueryParams are masked by RedactURL.
var sensitiveQueryParams = []string{"key", "api_key", "apikey", "token", "pagetoken"}

// SanitizeToken masks a secret, showing only the first and last 4 characters.
// Example: "AIzaSyD-1234567890abcd" -> "AIza...abcd"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// RedactURL masks credential-bearing query parameters in a URL string so
// it can be logged. Unparseable input is returned fully masked.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}
	q := u.Query()
	changed := false
	for _, name := range sensitiveQueryParams {
		if v := q.Get(name); v != "" {
			q.Set(name, SanitizeToken(v))
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// RedactSecret replaces every occurrence of secret in s. Used to scrub error
// strings produced by net/http, which embed the full request URL.
func RedactSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, SanitizeToken(secret))
}
