package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/models"
)

type storageStub struct {
	folder   string
	uploaded bytes.Buffer
}

func (s *storageStub) UploadTo(ctx context.Context, folder, name string, reader io.Reader) (string, error) {
	s.folder = folder
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + folder + "/" + name, nil
}

type uploadRepoStub struct {
	record models.UploadRecord
}

func (u *uploadRepoStub) Create(ctx context.Context, record *models.UploadRecord) error {
	u.record = *record
	return nil
}

func (u *uploadRepoStub) ListByUser(ctx context.Context, userID string, limit int) ([]models.UploadRecord, error) {
	return []models.UploadRecord{u.record}, nil
}

func TestUploadServiceRejectsSize(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, dmWithMembers(), 1, testLogger())

	file := buildFileHeader(t, "file.pdf", bytes.Repeat([]byte("a"), 2*1024*1024))

	_, err := svc.Upload(context.Background(), file, "user-1", UploadScopeChat, "dm-1")
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadServiceAvatarScopeIsImageOnly(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, dmWithMembers(), 5, testLogger())

	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 64)...)
	file := buildFileHeader(t, "cv.pdf", pdf)

	_, err := svc.Upload(context.Background(), file, "user-1", UploadScopeAvatar, "")
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestUploadServiceRejectsUnknownScope(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, dmWithMembers(), 5, testLogger())

	file := buildFileHeader(t, "notes.txt", []byte("plain text"))
	_, err := svc.Upload(context.Background(), file, "user-1", "backups", "")
	require.Error(t, err)
}

func TestUploadServiceSuccess(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, dmWithMembers(), 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "My Photo!.PNG", pngHeader)

	resp, err := svc.Upload(context.Background(), file, "user-1", UploadScopeAvatar, "")
	require.NoError(t, err)
	require.Contains(t, resp.URL, "avatars/")
	require.Equal(t, "my-photo.png", repo.record.FileName)
	require.Equal(t, "image", repo.record.MimeType)
	require.Equal(t, "user-1", repo.record.UserID)
	require.Equal(t, UploadScopeAvatar, storage.folder)
	require.NotEmpty(t, repo.record.Checksum)
}

func TestUploadServiceChatScopeNamespacesByConversation(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, dmWithMembers(), 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "sketch.png", pngHeader)

	resp, err := svc.Upload(context.Background(), file, "user-1", UploadScopeChat, "dm-1")
	require.NoError(t, err)
	require.Equal(t, "chat/dm-1/user-1", storage.folder)
	require.Contains(t, resp.URL, "chat/dm-1/user-1/")

	// missing conversation id is rejected outright
	_, err = svc.Upload(context.Background(), file, "user-1", UploadScopeChat, "")
	require.Error(t, err)

	// non-members cannot target the conversation
	_, err = svc.Upload(context.Background(), file, "user-9", UploadScopeChat, "dm-1")
	require.ErrorIs(t, err, ErrNotConversationMember)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
