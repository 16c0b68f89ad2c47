package session

import "strings"

// The identity provider delivers the session id in the URL fragment using
// this exact marker. It must never be altered or given fallback values; the
// provider enforces an exact match on the callback contract.
const fragmentMarker = "session_id="

// SessionIDFromFragment extracts the opaque session identifier from a URL
// fragment: the text following the marker up to the next '&' or the end of
// the string. It returns "" when the marker is absent.
func SessionIDFromFragment(fragment string) string {
	idx := strings.Index(fragment, fragmentMarker)
	if idx < 0 {
		return ""
	}
	id := fragment[idx+len(fragmentMarker):]
	if amp := strings.IndexByte(id, '&'); amp >= 0 {
		id = id[:amp]
	}
	return id
}
