package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/observability"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

const (
	socketSendBufferSize = 32
	typingPrefix         = "typing:"
)

var (
	ErrNotMessageSender = errors.New("only the sender can delete a message")
	ErrMessageNotFound  = errors.New("message not found")
)

// SocketOptions wraps metadata extracted during the HTTP upgrade.
type SocketOptions struct {
	UserID         string
	UserName       string
	UserAvatar     string
	ConversationID string
	CorrelationID  string
	Context        context.Context
}

// MessageService delivers conversation messages over REST and websockets.
type MessageService interface {
	ServeConnection(conn *websocket.Conn, opts SocketOptions)
	Send(ctx context.Context, sender SocketOptions, payload dto.MessageSendRequest) (dto.MessageResponse, error)
	History(ctx context.Context, userID, conversationID string, query dto.MessageHistoryQuery) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, userID, conversationID string) error
	Delete(ctx context.Context, userID, conversationID, messageID string) error
	SetTyping(ctx context.Context, userID, userName, conversationID string, isTyping bool) error
	TypingStatus(ctx context.Context, conversationID string) (dto.TypingStatusResponse, error)
	IsMember(ctx context.Context, conversationID, userID string) bool
	Start(ctx context.Context)
}

type messageService struct {
	messages      repository.MessageRepository
	conversations repository.ConversationRepository
	redis         *redis.Client
	redisStream   string
	nats          *nats.Conn
	natsSubject   string
	typingTTL     time.Duration
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
	hub           *socketHub
	nodeID        string
}

// socketHub keeps track of active websocket clients per conversation.
type socketHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*socketClient]struct{}
	log   zerolog.Logger
}

type socketClient struct {
	conn    *websocket.Conn
	send    chan dto.SocketEvent
	options SocketOptions
	service *messageService
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

type conversationEvent struct {
	Source string          `json:"source"`
	Event  dto.SocketEvent `json:"event"`
	SentAt time.Time       `json:"sent_at"`
}

// NewMessageService creates a conversation message service instance.
func NewMessageService(messages repository.MessageRepository, conversations repository.ConversationRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, typingTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) MessageService {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("br")

	hub := &socketHub{
		rooms: make(map[string]map[*socketClient]struct{}),
		log:   logger.With().Str("component", "socket_hub").Logger(),
	}

	tracer := otel.Tracer("github.com/fast-connect/connect-go-api/internal/service/message")

	streamChannel := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":conversations"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".conversations"
	}

	return &messageService{
		messages:      messages,
		conversations: conversations,
		redis:         redisClient,
		redisStream:   streamChannel,
		nats:          natsConn,
		natsSubject:   natsSubject,
		typingTTL:     typingTTL,
		validator:     validate,
		logger:        logger.With().Str("component", "message_service").Logger(),
		tracer:        tracer,
		sanitizer:     sanitizer,
		hub:           hub,
		nodeID:        uuid.NewString(),
	}
}

func (s *messageService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *messageService) IsMember(ctx context.Context, conversationID, userID string) bool {
	_, err := s.conversations.Member(ctx, conversationID, userID)
	return err == nil
}

func (s *messageService) ServeConnection(conn *websocket.Conn, opts SocketOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &socketClient{
		conn:    conn,
		send:    make(chan dto.SocketEvent, socketSendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	s.hub.register(client)
	observability.SocketConnectionsTotal().Inc()

	go client.writer()
	client.reader()
}

func (s *messageService) Send(ctx context.Context, sender SocketOptions, payload dto.MessageSendRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	member, err := s.conversations.Member(ctx, sender.ConversationID, sender.UserID)
	if err != nil {
		return dto.MessageResponse{}, ErrNotConversationMember
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if clean == "" && payload.FileURL == "" {
		return dto.MessageResponse{}, fmt.Errorf("message content empty after sanitization")
	}

	messageType := payload.Type
	if messageType == "" {
		messageType = models.MessageText
		if payload.FileURL != "" {
			messageType = models.MessageFile
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String("conversation.id", sender.ConversationID),
		attribute.String("message.sender_id", sender.UserID),
		attribute.String("message.type", messageType),
	}
	if sender.CorrelationID != "" {
		attrs = append(attrs, attribute.String("correlation_id", sender.CorrelationID))
	}

	spanCtx, span := s.tracer.Start(ctx, "message.send", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.Message{
		ID:             uuid.NewString(),
		ConversationID: sender.ConversationID,
		SenderID:       sender.UserID,
		SenderName:     member.Name,
		SenderAvatar:   member.Avatar,
		Content:        clean,
		Type:           messageType,
		FileURL:        payload.FileURL,
		FileName:       payload.FileName,
		FileSize:       payload.FileSize,
		ReadBy:         datatypes.JSONSlice[string]{sender.UserID},
	}

	if payload.ReplyToID != "" {
		parent, err := s.messages.Get(spanCtx, sender.ConversationID, payload.ReplyToID)
		if err != nil {
			return dto.MessageResponse{}, ErrMessageNotFound
		}
		model.ReplyToID = parent.ID
		model.ReplyToSender = parent.SenderName
		model.ReplyToContent = replyPreview(parent)
	}

	if err := s.messages.Append(spanCtx, &model, messagePreview(model)); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	response := dto.NewMessageResponse(model)
	event := dto.SocketEvent{
		Event:          dto.SocketEventMessage,
		ConversationID: model.ConversationID,
		Message:        &response,
	}
	s.hub.broadcast(model.ConversationID, event)
	if err := s.publish(spanCtx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish conversation event")
	}

	observability.MessagesSent().WithLabelValues(messageType).Inc()

	return response, nil
}

func (s *messageService) History(ctx context.Context, userID, conversationID string, query dto.MessageHistoryQuery) ([]dto.MessageResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	if !s.IsMember(ctx, conversationID, userID) {
		return nil, ErrNotConversationMember
	}

	before := time.Time{}
	if query.Before != nil {
		before = *query.Before
	}

	messages, err := s.messages.ListByConversation(ctx, conversationID, before, query.Limit)
	if err != nil {
		return nil, err
	}

	return dto.NewMessageResponseSlice(messages), nil
}

func (s *messageService) MarkRead(ctx context.Context, userID, conversationID string) error {
	if !s.IsMember(ctx, conversationID, userID) {
		return ErrNotConversationMember
	}
	return s.messages.MarkRead(ctx, conversationID, userID)
}

// Delete soft-deletes a message; its row survives as a tombstone so reply
// chains stay intact, but content and attachments are blanked.
func (s *messageService) Delete(ctx context.Context, userID, conversationID, messageID string) error {
	message, err := s.messages.Get(ctx, conversationID, messageID)
	if err != nil {
		return ErrMessageNotFound
	}
	if message.SenderID != userID {
		return ErrNotMessageSender
	}

	if err := s.messages.SoftDelete(ctx, conversationID, messageID); err != nil {
		return err
	}

	event := dto.SocketEvent{
		Event:          dto.SocketEventDeleted,
		ConversationID: conversationID,
		MessageID:      messageID,
	}
	s.hub.broadcast(conversationID, event)
	if err := s.publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish delete event")
	}

	return nil
}

// SetTyping writes a short-lived lease keyed by conversation and user.
// Indicators decay through the TTL alone, so an abandoned tab never shows
// as typing forever.
func (s *messageService) SetTyping(ctx context.Context, userID, userName, conversationID string, isTyping bool) error {
	if s.redis == nil {
		return nil
	}

	key := typingPrefix + conversationID + ":" + userID
	if isTyping {
		if err := s.redis.Set(ctx, key, userName, s.typingTTL).Err(); err != nil {
			return err
		}
	} else {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			return err
		}
	}

	status, err := s.TypingStatus(ctx, conversationID)
	if err != nil {
		return err
	}

	event := dto.SocketEvent{
		Event:          dto.SocketEventTyping,
		ConversationID: conversationID,
		Typing:         &status,
	}
	s.hub.broadcast(conversationID, event)
	if err := s.publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish typing event")
	}

	return nil
}

func (s *messageService) TypingStatus(ctx context.Context, conversationID string) (dto.TypingStatusResponse, error) {
	status := dto.TypingStatusResponse{
		ConversationID: conversationID,
		Typing:         map[string]string{},
	}
	if s.redis == nil {
		return status, nil
	}

	prefix := typingPrefix + conversationID + ":"
	iter := s.redis.Scan(ctx, 0, prefix+"*", 64).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		name, err := s.redis.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		status.Typing[strings.TrimPrefix(key, prefix)] = name
	}
	if err := iter.Err(); err != nil {
		return status, err
	}

	return status, nil
}

func (s *messageService) publish(ctx context.Context, event dto.SocketEvent) error {
	envelope := conversationEvent{
		Source: s.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *messageService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("conversation redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *messageService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "connect-conversations", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats conversation subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain nats conversation subscription")
		}
	}()
}

func (s *messageService) handleEvent(data []byte) {
	var envelope conversationEvent
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid conversation event")
		return
	}

	if envelope.Source == s.nodeID {
		return
	}

	s.hub.broadcast(envelope.Event.ConversationID, envelope.Event)
}

func messagePreview(message models.Message) string {
	if message.Type != models.MessageText && message.FileName != "" {
		return message.FileName
	}
	return truncatePreview(message.Content, 120)
}

func replyPreview(message models.Message) string {
	if message.IsDeleted {
		return ""
	}
	return truncatePreview(message.Content, 160)
}

func truncatePreview(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}

func (h *socketHub) register(client *socketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.ConversationID
	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[*socketClient]struct{})
	}
	h.rooms[room][client] = struct{}{}
	h.log.Debug().Str("conversation_id", room).Str("user_id", client.options.UserID).Msg("socket client connected")
}

func (h *socketHub) unregister(client *socketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.options.ConversationID
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	h.log.Debug().Str("conversation_id", room).Str("user_id", client.options.UserID).Msg("socket client disconnected")
}

func (h *socketHub) broadcast(conversationID string, event dto.SocketEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[conversationID]
	for client := range clients {
		select {
		case client.send <- event:
		default:
			h.log.Warn().Str("conversation_id", conversationID).Str("user_id", client.options.UserID).Msg("dropping event for slow client")
		}
	}
}

func (c *socketClient) reader() {
	defer c.close()

	connCtx := c.baseCtx
	if connCtx == nil {
		connCtx = context.Background()
	}

	for {
		var frame dto.SocketInbound
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.service.logger.Debug().Err(err).Msg("socket read loop ended")
			return
		}

		switch frame.Event {
		case dto.SocketEventMessage:
			if frame.Message == nil {
				continue
			}
			if _, err := c.service.Send(connCtx, c.options, *frame.Message); err != nil {
				c.service.logger.Warn().Err(err).Msg("failed to process socket message")
			}
		case dto.SocketEventTyping:
			if err := c.service.SetTyping(connCtx, c.options.UserID, c.options.UserName, c.options.ConversationID, frame.IsTyping); err != nil {
				c.service.logger.Warn().Err(err).Msg("failed to update typing state")
			}
		default:
			c.service.logger.Debug().Str("event", frame.Event).Msg("ignoring unknown socket frame")
		}
	}
}

func (c *socketClient) writer() {
	defer c.close()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.service.logger.Debug().Err(err).Msg("socket write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("socket ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *socketClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
