// File: internal/handlers/page_handlers.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/middleware"
	"github.com/iyunix/go-chatnest/internal/services/ai"
)

var pageTemplates = []string{"index.html", "login.html", "register.html", "chat.html", "error.html"}

// ChatReader is the read side of the chat orchestrator used by the pages.
type ChatReader interface {
	ListChats(ctx context.Context, userID uint) ([]domain.Chat, error)
	ListMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error)
}

// messageView is a message prepared for the chat template.
type messageView struct {
	Role    string
	Content string
	HTML    template.HTML
}

type PageHandler struct {
	templates   map[string]*template.Template
	chats       ChatReader
	models      ai.ModelLister
	attachments Uploader
	logger      Logger
}

// NewPageHandler parses one template set per page, each combining the page
// with layout.html.
func NewPageHandler(templateFS fs.FS, chats ChatReader, models ai.ModelLister, attachments Uploader, logger Logger) (*PageHandler, error) {
	cache := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		ts, err := template.New(name).ParseFS(templateFS, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		cache[name] = ts
	}

	return &PageHandler{
		templates:   cache,
		chats:       chats,
		models:      models,
		attachments: attachments,
		logger:      logger,
	}, nil
}

// render executes into a buffer first so a template error never produces a
// half-written page.
func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data map[string]interface{}) {
	addSecurityHeaders(w)
	if data == nil {
		data = make(map[string]interface{})
	}

	ts, ok := h.templates[name]
	if !ok {
		h.logger.Error("template not found", "template", name)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err.Error())
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

func (h *PageHandler) ShowIndexPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.ShowErrorPage(w, http.StatusNotFound, "Not Found", "The page you are looking for does not exist.")
		return
	}
	data := map[string]interface{}{}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		data["UserID"] = userID
	}
	h.render(w, http.StatusOK, "index.html", data)
}

func (h *PageHandler) ShowLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", nil)
}

func (h *PageHandler) ShowRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register.html", nil)
}

// ShowChatPage renders the chat list and, when ?id= names one of the user's
// chats (or by default the newest chat), its thread.
func (h *PageHandler) ShowChatPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	ctx := r.Context()

	chats, err := h.chats.ListChats(ctx, userID)
	if err != nil {
		h.logger.Error("chat page: list chats failed", "user_id", userID, "error", err.Error())
		h.ShowErrorPage(w, http.StatusInternalServerError, "Error", "Your chats could not be loaded.")
		return
	}

	data := map[string]interface{}{
		"UserID": userID,
		"Chats":  chats,
	}

	active := selectChat(chats, r.URL.Query().Get("id"))
	if active == nil {
		h.render(w, http.StatusOK, "chat.html", data)
		return
	}

	messages, err := h.chats.ListMessages(ctx, userID, active.ID)
	if err != nil {
		h.logger.Error("chat page: list messages failed", "user_id", userID, "chat_id", active.ID, "error", err.Error())
		h.ShowErrorPage(w, http.StatusInternalServerError, "Error", "This conversation could not be loaded.")
		return
	}

	data["ActiveChat"] = active
	data["Messages"] = toMessageViews(messages)
	data["Models"] = h.listModels(ctx)
	data["Attachments"] = h.listAttachments(ctx, userID)
	h.render(w, http.StatusOK, "chat.html", data)
}

func (h *PageHandler) ShowErrorPage(w http.ResponseWriter, status int, message, description string) {
	data := map[string]interface{}{
		"Code":        status,
		"Message":     message,
		"Description": description,
	}
	h.render(w, status, "error.html", data)
}

// NotFound is used as the router's fallback handler.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.ShowErrorPage(w, http.StatusNotFound, "Not Found", "The page you are looking for does not exist.")
}

// listModels degrades to an empty picker when the provider is unavailable;
// the template then offers the chat's own model.
func (h *PageHandler) listModels(ctx context.Context) []ai.Model {
	models, err := h.models.ListModels(ctx)
	if err != nil {
		h.logger.Warn("chat page: model list unavailable", "error", err.Error())
		return nil
	}
	return models
}

func (h *PageHandler) listAttachments(ctx context.Context, userID uint) []domain.Attachment {
	atts, err := h.attachments.List(ctx, userID)
	if err != nil {
		h.logger.Warn("chat page: attachment list unavailable", "user_id", userID, "error", err.Error())
		return nil
	}
	return atts
}

// selectChat picks the chat named by rawID from the user's own list. An
// unknown or foreign id falls back to the newest chat.
func selectChat(chats []domain.Chat, rawID string) *domain.Chat {
	if len(chats) == 0 {
		return nil
	}
	if id, err := strconv.ParseUint(rawID, 10, 64); err == nil {
		for i := range chats {
			if uint64(chats[i].ID) == id {
				return &chats[i]
			}
		}
	}
	return &chats[0]
}

func toMessageViews(messages []domain.Message) []messageView {
	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		view := messageView{Role: m.Role, Content: m.Content}
		if m.Role == domain.RoleAssistant {
			view.HTML = renderMarkdown(m.Content)
		}
		views = append(views, view)
	}
	return views
}
