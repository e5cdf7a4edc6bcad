package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/wayfarerhq/wayfarer/pkg/errors"
	"github.com/wayfarerhq/wayfarer/pkg/logger"
	"github.com/wayfarerhq/wayfarer/pkg/metrics"
	"github.com/wayfarerhq/wayfarer/pkg/validator"
)

// DefaultPersistTimeout bounds each document-store call made by a handler so
// a stalled store cannot pin an event forever.
const DefaultPersistTimeout = 5 * time.Second

// RouterConfig bundles the collaborators the event router needs.
type RouterConfig struct {
	Rooms          *Rooms
	Dashboards     DashboardStore
	Conversations  ConversationStore
	Messages       MessageStore
	PersistTimeout time.Duration
	Clock          func() time.Time
}

// Router dispatches inbound events to their handlers. Handler errors are
// converted to a single-recipient error event; they never terminate the
// connection or the process.
type Router struct {
	rooms          *Rooms
	dashboards     DashboardStore
	conversations  ConversationStore
	messages       MessageStore
	persistTimeout time.Duration
	now            func() time.Time
	log            *zap.Logger
}

// NewRouter constructs the event router.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.Rooms == nil {
		return nil, errors.New("realtime: rooms manager must be provided")
	}
	if cfg.Dashboards == nil || cfg.Conversations == nil || cfg.Messages == nil {
		return nil, errors.New("realtime: stores must be provided")
	}

	timeout := cfg.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Router{
		rooms:          cfg.Rooms,
		dashboards:     cfg.Dashboards,
		conversations:  cfg.Conversations,
		messages:       cfg.Messages,
		persistTimeout: timeout,
		now:            now,
		log:            logger.WithModule("realtime.router"),
	}, nil
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Dispatch routes one inbound event. It runs on the connection's read
// goroutine, so events from a single connection are processed in order while
// other connections proceed independently.
func (rt *Router) Dispatch(c *Client, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			rt.log.Error("handler panic",
				zap.String("user_id", c.identity.ID),
				zap.Any("panic", rec))
			rt.sendError(c, apperrors.ErrInternalServer)
		}
	}()

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		rt.sendError(c, apperrors.NewBadRequest("malformed event payload"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rt.persistTimeout)
	defer cancel()

	var err error
	switch env.Event {
	case EventJoinRoom:
		err = rt.handleJoinRoom(ctx, c, env.Data)
	case EventLeaveRoom:
		err = rt.handleLeaveRoom(ctx, c, env.Data)
	case EventStartEditing:
		err = rt.handleEditing(c, env.Data, true)
	case EventStopEditing:
		err = rt.handleEditing(c, env.Data, false)
	case EventCursorMove:
		err = rt.handleCursorMove(c, env.Data)
	case EventNoteUpdate:
		err = rt.handleNoteUpdate(ctx, c, env.Data)
	case EventSendMessage:
		err = rt.handleSendMessage(ctx, c, env.Data)
	case EventTypingStart:
		err = rt.handleTyping(c, env.Data, true)
	case EventTypingStop:
		err = rt.handleTyping(c, env.Data, false)
	default:
		err = apperrors.NewBadRequest("unsupported event: " + env.Event)
	}

	if err != nil {
		metrics.EventsProcessed.WithLabelValues(env.Event, "error").Inc()
		rt.log.Warn("event failed",
			zap.String("event", env.Event),
			zap.String("user_id", c.identity.ID),
			zap.Error(err))
		rt.sendError(c, err)
		return
	}
	metrics.EventsProcessed.WithLabelValues(env.Event, "ok").Inc()
}

// sendError reports a failure to the originating connection only; other room
// members never observe a partial broadcast.
func (rt *Router) sendError(c *Client, err error) {
	appErr := apperrors.FromError(err)
	c.enqueue(Message{
		Event: EventError,
		Data:  errorPayload{Code: appErr.Code, Message: appErr.Message},
	})
}

// decode parses and validates an inbound payload.
func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return apperrors.NewBadRequest("missing event data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.NewBadRequest("invalid event data")
	}
	if err := validator.ValidateStruct(v); err != nil {
		return apperrors.NewBadRequest(err.Error())
	}
	return nil
}
