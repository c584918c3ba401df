package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/middleware"
	"github.com/iyunix/go-chatnest/internal/services/ai"
	"github.com/iyunix/go-chatnest/internal/services/attachment"
	"github.com/iyunix/go-chatnest/internal/services/chat"
	"github.com/iyunix/go-chatnest/internal/services/user_services"
)

func authed(req *http.Request, userID uint) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, false)
		auth.On("Register", mock.Anything, "a@b.co", "password1").
			Return(&domain.User{ID: 1, Email: "a@b.co", Password: "hash"}, nil).Once()

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register",
			jsonBody(t, map[string]string{"email": "a@b.co", "password": "password1"})))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "hash")
		auth.AssertExpectations(t)
	})

	t.Run("invalid payload never reaches the service", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, false)

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register",
			jsonBody(t, map[string]string{"email": "nope", "password": "x"})))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := NewAuthHandler(&mockAuth{}, testLogger, time.Hour, false)

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, false)
		auth.On("Register", mock.Anything, "a@b.co", "password1").
			Return(nil, &user_services.AuthError{Type: user_services.ErrTypeConflict, Operation: "register", Message: "user already exists"}).Once()

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register",
			jsonBody(t, map[string]string{"email": "a@b.co", "password": "password1"})))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"user already exists"}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, false)
		auth.On("Register", mock.Anything, "a@b.co", "password1").
			Return(nil, &user_services.AuthError{Type: user_services.ErrTypeInternal, Message: "failed to create user", Cause: errors.New("disk full")}).Once()

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register",
			jsonBody(t, map[string]string{"email": "a@b.co", "password": "password1"})))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "disk full")
	})
}

func TestAuthHandler_LoginAndLogout(t *testing.T) {
	t.Run("sets cookie and returns token", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, true)
		auth.On("Login", mock.Anything, "a@b.co", "password1").
			Return(&domain.User{ID: 9, Email: "a@b.co"}, "signed.jwt.token", nil).Once()

		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(t, map[string]string{"email": "a@b.co", "password": "password1"})))

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt.token", body["token"])

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
		assert.Equal(t, "signed.jwt.token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("bad credentials", func(t *testing.T) {
		auth := &mockAuth{}
		h := NewAuthHandler(auth, testLogger, time.Hour, false)
		auth.On("Login", mock.Anything, "a@b.co", "wrong").
			Return(nil, "", &user_services.AuthError{Type: user_services.ErrTypeUnauthorized, Message: "invalid credentials"}).Once()

		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(t, map[string]string{"email": "a@b.co", "password": "wrong"})))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		h := NewAuthHandler(&mockAuth{}, testLogger, time.Hour, false)

		rr := httptest.NewRecorder()
		h.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		require.Len(t, rr.Result().Cookies(), 1)
		assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)
	})
}

func TestChatHandler(t *testing.T) {
	t.Run("missing user is 401", func(t *testing.T) {
		h := NewChatHandler(&mockChats{}, testLogger)

		rr := httptest.NewRecorder()
		h.GetUserChats(rr, httptest.NewRequest(http.MethodGet, "/api/chats", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("list newest first", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("ListChats", mock.Anything, uint(4)).
			Return([]domain.Chat{{ID: 2, Name: "second"}, {ID: 1, Name: "first"}}, nil).Once()

		rr := httptest.NewRecorder()
		h.GetUserChats(rr, authed(httptest.NewRequest(http.MethodGet, "/api/chats", nil), 4))

		require.Equal(t, http.StatusOK, rr.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "second", body[0]["name"])
	})

	t.Run("create", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("CreateChat", mock.Anything, uint(4)).
			Return(&domain.Chat{ID: 5, Name: "New Chat", Model: "gpt-3.5-turbo"}, nil).Once()

		rr := httptest.NewRecorder()
		h.CreateChat(rr, authed(httptest.NewRequest(http.MethodPost, "/api/chats", nil), 4))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"New Chat"`)
	})

	t.Run("delete foreign chat is 404", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("DeleteChat", mock.Anything, uint(4), uint(77)).
			Return(chat.NewNotFoundError("delete_chat", 4, 77)).Once()

		req := mux.SetURLVars(authed(httptest.NewRequest(http.MethodDelete, "/api/chats/77", nil), 4), map[string]string{"id": "77"})
		rr := httptest.NewRecorder()
		h.DeleteChat(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete ok", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("DeleteChat", mock.Anything, uint(4), uint(5)).Return(nil).Once()

		req := mux.SetURLVars(authed(httptest.NewRequest(http.MethodDelete, "/api/chats/5", nil), 4), map[string]string{"id": "5"})
		rr := httptest.NewRecorder()
		h.DeleteChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"Chat deleted successfully"}`, rr.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		h := NewChatHandler(&mockChats{}, testLogger)

		req := mux.SetURLVars(authed(httptest.NewRequest(http.MethodGet, "/api/chats/abc/messages", nil), 4), map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()
		h.GetChatMessages(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("messages oldest first", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("ListMessages", mock.Anything, uint(4), uint(5)).Return([]domain.Message{
			{ID: 1, ChatID: 5, Role: domain.RoleUser, Content: "hi"},
			{ID: 2, ChatID: 5, Role: domain.RoleAssistant, Content: "hello"},
		}, nil).Once()

		req := mux.SetURLVars(authed(httptest.NewRequest(http.MethodGet, "/api/chats/5/messages", nil), 4), map[string]string{"id": "5"})
		rr := httptest.NewRecorder()
		h.GetChatMessages(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "user", body[0]["role"])
		assert.Equal(t, "assistant", body[1]["role"])
	})
}

func TestChatHandler_HandleChatMessage(t *testing.T) {
	send := func(h *ChatHandler, body interface{}) *httptest.ResponseRecorder {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/chats/5/messages", bytes.NewReader(b))
		req = mux.SetURLVars(authed(req, 4), map[string]string{"id": "5"})
		rr := httptest.NewRecorder()
		h.HandleChatMessage(rr, req)
		return rr
	}

	t.Run("returns assistant message", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("SendMessage", mock.Anything, chat.SendMessageRequest{
			ChatID: 5, UserID: 4, Content: "hi", Model: "m1", AttachmentIDs: []uint{3, 9},
		}).Return(&domain.Message{ID: 8, ChatID: 5, Role: domain.RoleAssistant, Content: "hello"}, nil).Once()

		rr := send(h, map[string]interface{}{"message": "hi", "model": "m1", "attachmentIds": []uint{3, 9}})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"role":"assistant"`)
		assert.Contains(t, rr.Body.String(), `"content":"hello"`)
		chats.AssertExpectations(t)
	})

	t.Run("any number of attachment ids reaches the service", func(t *testing.T) {
		ids := []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("SendMessage", mock.Anything, chat.SendMessageRequest{
			ChatID: 5, UserID: 4, Content: "hi", AttachmentIDs: ids,
		}).Return(&domain.Message{ID: 9, ChatID: 5, Role: domain.RoleAssistant, Content: "hello"}, nil).Once()

		rr := send(h, map[string]interface{}{"message": "hi", "attachmentIds": ids})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"content":"hello"`)
		chats.AssertExpectations(t)
	})

	t.Run("empty message is 400", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)

		rr := send(h, map[string]interface{}{"message": ""})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		chats.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("foreign chat is 404", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("SendMessage", mock.Anything, mock.Anything).Return(nil, chat.NewNotFoundError("send_message", 4, 5)).Once()

		rr := send(h, map[string]interface{}{"message": "hi"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("provider failure is a generic 500", func(t *testing.T) {
		chats := &mockChats{}
		h := NewChatHandler(chats, testLogger)
		chats.On("SendMessage", mock.Anything, mock.Anything).
			Return(nil, chat.NewDownstreamError("send_message", "completion failed", errors.New("upstream said 502"))).Once()

		rr := send(h, map[string]interface{}{"message": "hi"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "502")
	})
}

func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAttachmentHandler_Upload(t *testing.T) {
	t.Run("stores the file", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 1<<20)
		uploads.On("Upload", mock.Anything, mock.MatchedBy(func(req attachment.UploadRequest) bool {
			return req.UserID == 4 && req.Filename == "notes.txt" && string(req.Data) == "hello world" &&
				strings.HasPrefix(req.ContentType, "text/plain")
		})).Return(&domain.Attachment{ID: 12, Filename: "notes.txt", URL: "http://files/4/1-notes.txt"}, nil).Once()

		rr := httptest.NewRecorder()
		h.Upload(rr, authed(multipartUpload(t, "file", "notes.txt", []byte("hello world")), 4))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":12,"filename":"notes.txt","url":"http://files/4/1-notes.txt"}`, rr.Body.String())
		uploads.AssertExpectations(t)
	})

	t.Run("zero-byte file is passed through", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 1<<20)
		uploads.On("Upload", mock.Anything, mock.MatchedBy(func(req attachment.UploadRequest) bool {
			return req.Filename == "empty.txt" && len(req.Data) == 0
		})).Return(&domain.Attachment{ID: 13, Filename: "empty.txt", URL: "http://files/4/2-empty.txt"}, nil).Once()

		rr := httptest.NewRecorder()
		h.Upload(rr, authed(multipartUpload(t, "file", "empty.txt", nil), 4))

		require.Equal(t, http.StatusOK, rr.Code)
		uploads.AssertExpectations(t)
	})

	t.Run("no file is 400", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 1<<20)

		rr := httptest.NewRecorder()
		h.Upload(rr, authed(multipartUpload(t, "", "", nil), 4))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"No file uploaded"}`, rr.Body.String())
		uploads.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 8)

		rr := httptest.NewRecorder()
		h.Upload(rr, authed(multipartUpload(t, "file", "big.bin", bytes.Repeat([]byte("x"), 64)), 4))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		uploads.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is 500", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 1<<20)
		uploads.On("Upload", mock.Anything, mock.Anything).
			Return(nil, attachment.NewDownstreamError("upload", "storage put failed", 4, errors.New("bucket gone"))).Once()

		rr := httptest.NewRecorder()
		h.Upload(rr, authed(multipartUpload(t, "file", "a.txt", []byte("a")), 4))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "bucket")
	})

	t.Run("list", func(t *testing.T) {
		uploads := &mockUploads{}
		h := NewAttachmentHandler(uploads, testLogger, 1<<20)
		uploads.On("List", mock.Anything, uint(4)).Return([]domain.Attachment{{ID: 2, Filename: "b"}, {ID: 1, Filename: "a"}}, nil).Once()

		rr := httptest.NewRecorder()
		h.ListAttachments(rr, authed(httptest.NewRequest(http.MethodGet, "/api/attachments", nil), 4))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"filename":"b"`)
	})
}

func TestModelHandler(t *testing.T) {
	models := &mockModels{}
	h := NewModelHandler(models, testLogger)
	models.On("ListModels", mock.Anything).Return([]ai.Model{{ID: "m1", Name: "Model One"}}, nil).Once()

	rr := httptest.NewRecorder()
	h.ListModels(rr, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"m1","name":"Model One"}]`, rr.Body.String())

	models.On("ListModels", mock.Anything).Return(nil, ai.NewNetworkError("list_models", errors.New("timeout"))).Once()
	rr = httptest.NewRecorder()
	h.ListModels(rr, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
