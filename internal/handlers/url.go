package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/audit"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Not Found. Provided hash does not exists"
	msgMissingURL     = "Bad Request. Missing url in body parameter"
	msgInvalidURL     = "Bad Request. Provided url is not valid"
	msgCollision      = "Conflict. Hash already belongs to another url"
	msgPersistence    = "Unable to process url. maybe try later"
	msgInvalidToken   = "Bad Request. token is invalid"
	msgDisableFailure = "Unable to delete url. maybe try later"
	msgDeleted        = "ok. Deleted"
)

// URLHandler exposes the lifecycle service over HTTP.
type URLHandler struct {
	service *shortener.Service
	publish messaging.Publish[audit.LifecycleEvent]
	logger  *zap.Logger
	now     func() time.Time
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	publish messaging.Publish[audit.LifecycleEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service: service,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata attached to lifecycle events.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// Create shortens the URL in the body, returning the existing record or
// re-enabling it when the URL was shortened before.
func (h *URLHandler) Create(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	if req.Body == nil || req.Body.URL == "" {
		return nil, huma.Error400BadRequest(msgMissingURL)
	}

	res, err := h.service.CreateOrFetch(ctx, req.Body.URL)
	if err != nil {
		return nil, h.createError(req.Body.URL, err)
	}

	switch res.Outcome {
	case shortener.OutcomeCreated:
		h.emit(ctx, res.Record, audit.TransitionCreated)
	case shortener.OutcomeReenabled:
		h.emit(ctx, res.Record, audit.TransitionReenabled)
	case shortener.OutcomeExisting:
	}

	return &CreateResponse{Body: res.View}, nil
}

func (h *URLHandler) createError(rawURL string, err error) error {
	var persistErr *shortener.PersistenceError

	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest(msgInvalidURL)
	case errors.Is(err, shortener.ErrHashCollision):
		return huma.Error409Conflict(msgCollision)
	case errors.As(err, &persistErr):
		h.logger.Error("failed to shorten url",
			zap.String("url", rawURL),
			zap.String("op", persistErr.Op),
			zap.Error(err),
		)

		return huma.Error500InternalServerError(msgPersistence)
	default:
		h.logger.Error("failed to shorten url", zap.String("url", rawURL), zap.Error(err))

		return huma.Error500InternalServerError(msgPersistence)
	}
}

// Resolve looks up an active hash, counts the visit and answers according to
// the first media type of the Accept header.
func (h *URLHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	rec, err := h.activeRecord(ctx, shortener.Hash(req.Hash))
	if err != nil {
		return nil, err
	}

	if updated, ok := h.service.RegisterVisit(ctx, rec); ok {
		rec = updated
	}

	switch preferredMediaType(req.Accept) {
	case "text/plain":
		return &ResolveResponse{
			Status:      http.StatusOK,
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(rec.URL),
		}, nil
	case "application/json":
		body, err := json.Marshal(h.service.View(rec))
		if err != nil {
			return nil, huma.Error500InternalServerError(msgPersistence)
		}

		return &ResolveResponse{
			Status:      http.StatusOK,
			ContentType: "application/json",
			Body:        body,
		}, nil
	default:
		return &ResolveResponse{
			Status:   http.StatusFound,
			Location: rec.URL,
		}, nil
	}
}

// Remove disables the hash when the remove token matches.
func (h *URLHandler) Remove(ctx context.Context, req *RemoveRequest) (*RemoveResponse, error) {
	rec, err := h.activeRecord(ctx, shortener.Hash(req.Hash))
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(rec.RemoveToken), []byte(req.RemoveToken)) != 1 {
		return nil, huma.Error400BadRequest(msgInvalidToken)
	}

	if err := h.service.Disable(ctx, rec); err != nil {
		h.logger.Error("failed to disable url",
			zap.String("hash", req.Hash),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError(msgDisableFailure)
	}

	h.emit(ctx, rec, audit.TransitionDisabled)

	return &RemoveResponse{
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(msgDeleted),
	}, nil
}

// activeRecord resolves hash and hides inactive records behind a 404.
func (h *URLHandler) activeRecord(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	rec, err := h.service.Resolve(ctx, hash)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(msgNotFound)
		}

		h.logger.Error("failed to resolve hash",
			zap.String("hash", string(hash)),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError(msgPersistence)
	}

	if !rec.Active {
		return nil, huma.Error404NotFound(msgNotFound)
	}

	return rec, nil
}

func (h *URLHandler) emit(ctx context.Context, rec *shortener.Record, transition audit.Transition) {
	meta := RequestMetaFromContext(ctx)
	event := &audit.LifecycleEvent{
		Hash:       string(rec.Hash),
		URL:        rec.URL,
		Transition: transition,
		OccurredAt: h.now(),
		RequestID:  meta.RequestID,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish lifecycle event",
			zap.String("hash", event.Hash),
			zap.String("transition", string(transition)),
			zap.Error(err),
		)
	}
}

// preferredMediaType returns the first media type listed in accept, without
// parameters.
func preferredMediaType(accept string) string {
	first, _, _ := strings.Cut(accept, ",")

	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(first))
	if err != nil {
		return ""
	}

	return mediaType
}
