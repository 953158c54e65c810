package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	callerContextKey = "caller_id"

	// IdempotencyTTL is how long a command response can be replayed.
	IdempotencyTTL = 24 * time.Hour
)

var (
	errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid bearer token")

	jwtSigningMethod = jwt.SigningMethodHS256
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	return nil
}

func bindAndValidate(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return ctx.Validate(body)
}

// MintToken signs an access token whose subject is userID.
func MintToken(secret []byte, userID kernel.UUID, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is required")
	}
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Authenticate resolves the caller from an HS256 bearer token. Roles are not taken from
// the token; the core checks them against the stored account.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return writeError(ctx, errUnauthenticated)
			}

			claims := &jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims,
				func(token *jwt.Token) (any, error) {
					if token.Method != jwtSigningMethod {
						return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
					}
					return secret, nil
				},
				jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				return writeError(ctx, errUnauthenticated)
			}

			caller, err := kernel.UUIDFromString(claims.Subject)
			if err != nil {
				return writeError(ctx, errUnauthenticated)
			}
			ctx.Set(callerContextKey, caller)
			return next(ctx)
		}
	}
}

func callerID(ctx echo.Context) (kernel.UUID, error) {
	caller, ok := ctx.Get(callerContextKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, errUnauthenticated
	}
	return caller, nil
}

// IdempotencyStore is the part of the redis adapter the idempotency middleware uses.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response of a POST that carries an Idempotency-Key the
// caller already used. Reusing a key with a different body is a conflict. Requests
// without the header, and failures of the store, pass through.
func Idempotency(store IdempotencyStore, logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "idempotency")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			key := strings.TrimSpace(req.Header.Get("Idempotency-Key"))
			if store == nil || req.Method != http.MethodPost || key == "" {
				return next(ctx)
			}

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			caller, _ := callerID(ctx)
			scope := strings.Join([]string{caller.String(), req.Method, req.URL.Path}, "|")
			storeKey := store.IdempotencyKey(scope, key)
			hash := hashBody(body)

			stored, err := store.Get(req.Context(), storeKey)
			if err != nil {
				logger.WarnContext(req.Context(), "idempotency lookup failed", "error", err)
				return next(ctx)
			}
			if stored != "" {
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					logger.WarnContext(req.Context(), "idempotency record is unreadable", "error", err)
					return next(ctx)
				}
				if record.RequestHash != hash {
					return writeError(ctx, errs.NewStateConflictError("idempotency key",
						"reused with a different request body"))
				}
				return replay(ctx, record)
			}

			capture := &responseCapture{ResponseWriter: ctx.Response().Writer}
			ctx.Response().Writer = capture
			if err := next(ctx); err != nil {
				return err
			}

			// Server errors are not stored so the client can retry them.
			status := ctx.Response().Status
			if status >= http.StatusInternalServerError {
				return nil
			}
			payload, err := json.Marshal(idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: ctx.Response().Header().Get(echo.HeaderContentType),
				RequestHash: hash,
			})
			if err != nil {
				logger.ErrorContext(req.Context(), "failed to encode idempotency record", "error", err)
				return nil
			}
			if _, err := store.SetNX(req.Context(), storeKey, string(payload), IdempotencyTTL); err != nil {
				logger.WarnContext(req.Context(), "failed to persist idempotency record", "error", err)
			}
			return nil
		}
	}
}

func replay(ctx echo.Context, record idempotencyRecord) error {
	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return writeError(ctx, err)
	}
	ctx.Response().Header().Set("Idempotent-Replayed", "true")
	if record.ContentType == "" {
		return ctx.NoContent(record.Status)
	}
	return ctx.Blob(record.Status, record.ContentType, body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
