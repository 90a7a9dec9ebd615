package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loanledger/pkg/id"
)

func digest(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// callerHeaders is the validated identity of a mutating request.
type callerHeaders struct {
	requestID string
	accountID string
	at        time.Time
}

func readHeaders(h http.Header, now time.Time) (callerHeaders, error) {
	var ch callerHeaders

	ch.requestID = strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case ch.requestID == "":
		return ch, errors.New("missing " + HeaderRequestID)
	case !id.ValidRequestID(ch.requestID):
		return ch, errors.New("invalid " + HeaderRequestID + " format")
	}

	at, err := parseAxRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return ch, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return ch, errors.New(HeaderRequestAt + " too skewed")
	}
	ch.at = at

	ch.accountID = strings.TrimSpace(h.Get(HeaderAccountID))
	switch {
	case ch.accountID == "":
		return ch, errors.New("missing " + HeaderAccountID)
	case !id.IsHex32(ch.accountID):
		return ch, errors.New("invalid " + HeaderAccountID)
	}
	return ch, nil
}

// parseAxRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339
// (optionally with fractional seconds) carrying a zone. Naive local
// timestamps are rejected.
func parseAxRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 { // ms
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}
