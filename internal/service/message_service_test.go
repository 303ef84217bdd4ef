package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
)

type messageRepoStub struct {
	byID    map[string]models.Message
	preview string
}

func newMessageRepoStub() *messageRepoStub {
	return &messageRepoStub{byID: map[string]models.Message{}}
}

func (r *messageRepoStub) Append(ctx context.Context, message *models.Message, preview string) error {
	r.byID[message.ID] = *message
	r.preview = preview
	return nil
}

func (r *messageRepoStub) Get(ctx context.Context, conversationID, messageID string) (models.Message, error) {
	message, ok := r.byID[messageID]
	if !ok || message.ConversationID != conversationID {
		return models.Message{}, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (r *messageRepoStub) ListByConversation(ctx context.Context, conversationID string, before time.Time, limit int) ([]models.Message, error) {
	var out []models.Message
	for _, message := range r.byID {
		if message.ConversationID == conversationID {
			out = append(out, message)
		}
	}
	return out, nil
}

func (r *messageRepoStub) MarkRead(ctx context.Context, conversationID, userID string) error {
	return nil
}

func (r *messageRepoStub) SoftDelete(ctx context.Context, conversationID, messageID string) error {
	message, err := r.Get(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	message.IsDeleted = true
	message.Content = ""
	r.byID[messageID] = message
	return nil
}

func newMessageFixture(t *testing.T, messages *messageRepoStub, conversations *conversationRepoStub) MessageService {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewMessageService(messages, conversations, client, "connect", nil, time.Minute, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func dmWithMembers() *conversationRepoStub {
	repo := newConversationRepoStub()
	repo.put(models.Conversation{
		ID:   "dm-1",
		Type: models.ConversationPrivate,
		Members: []models.ConversationMember{
			{UserID: "user-1", Name: "Ayesha Khan"},
			{UserID: "user-2", Name: "Bilal Ahmed"},
		},
	})
	return repo
}

func TestSendRejectsNonMembers(t *testing.T) {
	svc := newMessageFixture(t, newMessageRepoStub(), dmWithMembers())

	sender := SocketOptions{UserID: "user-3", ConversationID: "dm-1"}
	_, err := svc.Send(context.Background(), sender, dto.MessageSendRequest{Content: "hey"})
	require.ErrorIs(t, err, ErrNotConversationMember)
}

func TestSendSanitizesAndDenormalizesSender(t *testing.T) {
	messages := newMessageRepoStub()
	svc := newMessageFixture(t, messages, dmWithMembers())

	sender := SocketOptions{UserID: "user-1", ConversationID: "dm-1"}
	resp, err := svc.Send(context.Background(), sender, dto.MessageSendRequest{
		Content: `<script>alert("x")</script>assignment due tomorrow`,
	})
	require.NoError(t, err)
	require.NotContains(t, resp.Content, "<script>")
	require.Equal(t, "Ayesha Khan", resp.SenderName)
	require.Equal(t, models.MessageText, resp.Type)
	require.Contains(t, messages.preview, "assignment due tomorrow")
}

func TestSendWithFileInfersFileType(t *testing.T) {
	messages := newMessageRepoStub()
	svc := newMessageFixture(t, messages, dmWithMembers())

	sender := SocketOptions{UserID: "user-1", ConversationID: "dm-1"}
	resp, err := svc.Send(context.Background(), sender, dto.MessageSendRequest{
		FileURL:  "https://cdn.example.com/chat/notes.pdf",
		FileName: "notes.pdf",
		FileSize: 2048,
	})
	require.NoError(t, err)
	require.Equal(t, models.MessageFile, resp.Type)
}

func TestSendReplySnapshotsParent(t *testing.T) {
	messages := newMessageRepoStub()
	svc := newMessageFixture(t, messages, dmWithMembers())

	parent, err := svc.Send(context.Background(), SocketOptions{UserID: "user-1", ConversationID: "dm-1"}, dto.MessageSendRequest{
		Content: "want to revise sorting tonight?",
	})
	require.NoError(t, err)

	reply, err := svc.Send(context.Background(), SocketOptions{UserID: "user-2", ConversationID: "dm-1"}, dto.MessageSendRequest{
		Content:   "sure, 9pm works",
		ReplyToID: parent.ID,
	})
	require.NoError(t, err)
	require.Equal(t, parent.ID, reply.ReplyToID)
	require.Equal(t, "Ayesha Khan", reply.ReplyToSender)

	_, err = svc.Send(context.Background(), SocketOptions{UserID: "user-2", ConversationID: "dm-1"}, dto.MessageSendRequest{
		Content:   "replying to nothing",
		ReplyToID: "missing",
	})
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDeleteSenderOnly(t *testing.T) {
	messages := newMessageRepoStub()
	svc := newMessageFixture(t, messages, dmWithMembers())

	sent, err := svc.Send(context.Background(), SocketOptions{UserID: "user-1", ConversationID: "dm-1"}, dto.MessageSendRequest{
		Content: "typo, ignore",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), "user-2", "dm-1", sent.ID), ErrNotMessageSender)
	require.NoError(t, svc.Delete(context.Background(), "user-1", "dm-1", sent.ID))
	require.True(t, messages.byID[sent.ID].IsDeleted)
}

func TestTypingStatusRoundTrip(t *testing.T) {
	svc := newMessageFixture(t, newMessageRepoStub(), dmWithMembers())
	ctx := context.Background()

	require.NoError(t, svc.SetTyping(ctx, "user-1", "Ayesha Khan", "dm-1", true))

	status, err := svc.TypingStatus(ctx, "dm-1")
	require.NoError(t, err)
	require.Equal(t, "dm-1", status.ConversationID)
	require.Equal(t, "Ayesha Khan", status.Typing["user-1"])

	require.NoError(t, svc.SetTyping(ctx, "user-1", "Ayesha Khan", "dm-1", false))

	status, err = svc.TypingStatus(ctx, "dm-1")
	require.NoError(t, err)
	require.Empty(t, status.Typing)
}
