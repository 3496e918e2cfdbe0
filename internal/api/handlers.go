package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kiraleos/docchat/internal/core"
	"github.com/kiraleos/docchat/internal/store"
)

type APIHandler struct {
	chatService *core.ChatService
	documents   *store.DocumentStore
	retriever   *core.Retriever
}

func NewAPIHandler(cs *core.ChatService, docs *store.DocumentStore, retriever *core.Retriever) *APIHandler {
	return &APIHandler{
		chatService: cs,
		documents:   docs,
		retriever:   retriever,
	}
}

// Document handlers

type UploadDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *APIHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Intake is pre-decoded plain text only; the content is never parsed
	// structurally, whatever file type the title claims.
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	doc := h.documents.AddDocument(req.Title, req.Content)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs := h.documents.Snapshot()
	if docs == nil {
		docs = []*store.Document{}
	}
	json.NewEncoder(w).Encode(docs)
}

func (h *APIHandler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "documentID")
	// Deleting an unknown id is a no-op, so deletes are idempotent.
	h.documents.DeleteDocument(docID)
	w.WriteHeader(http.StatusNoContent)
}

// Retrieval handler

type RetrieveRequest struct {
	Query     string   `json:"query"`
	TopK      int      `json:"top_k,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type RetrieveResponse struct {
	Sources []core.Source `json:"sources"`
}

func (h *APIHandler) RetrieveHandler(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	threshold := -1.0 // negative selects the configured default
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	sources := h.retriever.RetrieveWith(req.Query, req.TopK, threshold)

	json.NewEncoder(w).Encode(RetrieveResponse{Sources: sources})
}

// Chat handlers

type CreateChatRequest struct {
	FirstMessage *string `json:"first_message,omitempty"`
}

type CreateChatResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages,omitempty"`
	Sources  []core.Source   `json:"sources,omitempty"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	chat, messages, sources, err := h.chatService.CreateChat(req.FirstMessage)
	if err != nil {
		if errors.Is(err, core.ErrComposeFailed) {
			log.Printf("Composer failed for new chat: %v", err)
			http.Error(w, "Failed to generate a response, please retry your question", http.StatusBadGateway)
			return
		}
		log.Printf("Error creating chat: %v", err)
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}

	resp := CreateChatResponse{
		Chat:     chat,
		Messages: messages,
		Sources:  sources,
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.GetChats()
	if err != nil {
		log.Printf("Error listing chats: %v", err)
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}
	if chats == nil {
		chats = []store.Chat{}
	}
	json.NewEncoder(w).Encode(chats)
}

type GetChatDetailsResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChatDetails(chatID)
	if err != nil {
		log.Printf("Error getting chat details for chat %s: %v", chatID, err)
		http.Error(w, "Failed to get chat details", http.StatusInternalServerError)
		return
	}
	if chat == nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	resp := GetChatDetailsResponse{
		Chat:     chat,
		Messages: messages,
	}
	json.NewEncoder(w).Encode(resp)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

type PostMessageResponse struct {
	Message *store.Message `json:"message"`
	Sources []core.Source  `json:"sources"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	modelMessage, sources, err := h.chatService.PostMessage(chatID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChatNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, core.ErrComposeFailed):
			log.Printf("Composer failed for chat %s: %v", chatID, err)
			http.Error(w, "Failed to generate a response, please retry your question", http.StatusBadGateway)
		default:
			log.Printf("Error posting message for chat %s: %v", chatID, err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}

	if sources == nil {
		sources = []core.Source{}
	}
	json.NewEncoder(w).Encode(PostMessageResponse{Message: modelMessage, Sources: sources})
}

type FeedbackRequest struct {
	Negative bool `json:"negative"`
}

func (h *APIHandler) MessageFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := h.chatService.SetMessageFeedback(messageID, req.Negative)
	if err != nil {
		if strings.Contains(err.Error(), "message not found") {
			http.Error(w, "Message not found", http.StatusNotFound)
		} else {
			log.Printf("Error setting feedback for message %s: %v", messageID, err)
			http.Error(w, "Failed to set feedback", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
