package core

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kiraleos/docchat/internal/store"
)

var (
	// ErrChatNotFound is returned when a chat id does not exist.
	ErrChatNotFound = errors.New("chat not found")
	// ErrComposeFailed wraps failures of the response composer. It is
	// distinct from the zero-sources case, which produces a normal answer.
	ErrComposeFailed = errors.New("failed to compose response")
)

// ChatService orchestrates a chat turn: persist the user message, retrieve
// grounding sources, compose the answer and persist the model message.
// Documents cannot be ingested mid-turn because the retriever works on a
// snapshot taken when retrieval starts.
type ChatService struct {
	history   *store.SQLiteStore
	retriever *Retriever
	composer  ResponseComposer
}

func NewChatService(history *store.SQLiteStore, retriever *Retriever, composer ResponseComposer) *ChatService {
	return &ChatService{
		history:   history,
		retriever: retriever,
		composer:  composer,
	}
}

func (s *ChatService) CreateChat(firstMessageContent *string) (*store.Chat, []store.Message, []Source, error) {
	var title *string
	if firstMessageContent != nil && *firstMessageContent != "" {
		t := deriveTitle(*firstMessageContent)
		title = &t
	}

	chat, err := s.history.CreateChat(title)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	var messages []store.Message
	var sources []Source

	if firstMessageContent != nil && *firstMessageContent != "" {
		userMsg := store.Message{
			ChatID:  chat.ID,
			Sender:  "user",
			Content: *firstMessageContent,
		}
		if err := s.history.CreateMessage(&userMsg); err != nil {
			log.Printf("Failed to store first user message for new chat %s: %v", chat.ID, err)
			return chat, nil, nil, nil
		}
		messages = append(messages, userMsg)

		modelMsg, srcs, err := s.respond(chat.ID, userMsg.Content)
		if err != nil {
			// The chat and user message are already persisted; surface the
			// composer failure so the caller can report it.
			return chat, messages, nil, err
		}
		messages = append(messages, *modelMsg)
		sources = srcs
	}

	return chat, messages, sources, nil
}

func (s *ChatService) GetChats() ([]store.Chat, error) {
	return s.history.GetChats()
}

func (s *ChatService) GetChatDetails(chatID string) (*store.Chat, []store.Message, error) {
	chat, err := s.history.GetChatByID(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, nil, nil // Not found
	}

	messages, err := s.history.GetMessagesByChatID(chatID, 100, 0) // Get up to 100 messages
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

// PostMessage stores the user message, answers it and stores the answer.
// On composer failure the user message stays persisted and the error wraps
// ErrComposeFailed; store state is never corrupted.
func (s *ChatService) PostMessage(chatID string, userContent string) (*store.Message, []Source, error) {
	chat, err := s.history.GetChatByID(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, nil, ErrChatNotFound
	}

	userMsg := store.Message{
		ChatID:  chatID,
		Sender:  "user",
		Content: userContent,
	}
	if err := s.history.CreateMessage(&userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to store user message: %w", err)
	}

	modelMsg, sources, err := s.respond(chatID, userContent)
	if err != nil {
		return nil, nil, err
	}

	// Backfill the title for chats created without a first message.
	if chat.Title == nil || *chat.Title == "" {
		if err := s.history.UpdateChatTitle(chatID, deriveTitle(userContent)); err != nil {
			log.Printf("Failed to save title for chat %s: %v", chatID, err)
		}
	}

	return modelMsg, sources, nil
}

// respond retrieves grounding sources for the query, composes the answer
// and persists it as a model message.
func (s *ChatService) respond(chatID string, query string) (*store.Message, []Source, error) {
	sources := s.retriever.Retrieve(query)

	answer, err := s.composer.Compose(query, sources)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrComposeFailed, err)
	}

	modelMsg := store.Message{
		ChatID:  chatID,
		Sender:  "model",
		Content: answer,
	}
	if err := s.history.CreateMessage(&modelMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to store model message: %w", err)
	}
	return &modelMsg, sources, nil
}

func (s *ChatService) SetMessageFeedback(messageID string, negative bool) error {
	return s.history.UpdateMessageFeedback(messageID, negative)
}

// deriveTitle shortens the first user message into a chat title.
func deriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Trim(strings.Join(words, " "), "\"'\n\r\t .?!")
}
