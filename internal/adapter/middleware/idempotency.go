package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderAccountID = "Ax-Account-Id"
	// HeaderReplayed is set on responses served from the store.
	HeaderReplayed = "Ax-Idempotent-Replay"

	// reservationTTL bounds how long a crashed handler can block its key.
	reservationTTL = 60 * time.Second
	maxClockSkew   = 10 * time.Minute
	storeTimeout   = 2 * time.Second
)

// capture tees the response so it can be stored for replay.
type capture struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *capture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capture) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func reject(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]string{"error": msg, "code": code})
}

// IdempotencyMiddleware guards every mutating request. The caller must send
// Ax-Request-Id, Ax-Request-At and Ax-Account-Id; the first completed
// response per (method, route, account, request id) is replayed for ttl.
// A reused id with a different body is a conflict. 5xx responses release
// the key so the client can retry.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	s := store{rdb: rdb}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !mutating(req.Method) {
				return next(c)
			}

			hdr, err := readHeaders(req.Header, nowUTC())
			if err != nil {
				return reject(c, http.StatusBadRequest, "BadRequest", err.Error())
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return reject(c, http.StatusBadRequest, "BadRequest", "unreadable body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			sum := digest(body)

			key := storeKey(req.Method, c.Path(), hdr.accountID, hdr.requestID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			ok, err := s.reserve(ctx, key, record{
				Pending:     true,
				Digest:      sum,
				RequestAtMS: hdr.at.UnixMilli(),
				StoredAt:    nowUTC(),
			})
			if err != nil {
				slog.Error("idempotency.store_unavailable", "key", key, "err", err)
				return reject(c, http.StatusServiceUnavailable, "IdempotencyUnavailable", "idempotency store unavailable")
			}
			if !ok {
				return replay(ctx, c, s, key, sum)
			}

			w := &capture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			if w.status >= http.StatusInternalServerError {
				if err := s.release(context.Background(), key); err != nil {
					slog.Warn("idempotency.release_failed", "key", key, "err", err)
				}
				return nil
			}
			done := record{
				Status:      w.status,
				ContentType: w.Header().Get(echo.HeaderContentType),
				Body:        w.buf.Bytes(),
				Digest:      sum,
				RequestAtMS: hdr.at.UnixMilli(),
				StoredAt:    nowUTC(),
			}
			if err := s.commit(context.Background(), key, done, ttl); err != nil {
				slog.Warn("idempotency.save_failed", "key", key, "err", err)
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, s store, key, sum string) error {
	prev, err := s.load(ctx, key)
	if err != nil {
		slog.Warn("idempotency.load_failed", "key", key, "err", err)
	}
	if prev.Digest != "" && prev.Digest != sum {
		return reject(c, http.StatusConflict, "IdempotencyMismatch", HeaderRequestID+" reused with different body")
	}
	if prev.Pending || prev.Status == 0 {
		return reject(c, http.StatusConflict, "IdempotencyInProgress", "request is already in progress")
	}
	slog.Debug("idempotency.replay", "key", key, "status", prev.Status)
	ct := prev.ContentType
	if ct == "" {
		ct = echo.MIMEApplicationJSONCharsetUTF8
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(prev.Status, ct, prev.Body)
}
