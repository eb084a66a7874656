package services

import (
	"context"
	"errors"
	"strings"

	"github.com/olprod/backend/internal/core/ports"
	"github.com/olprod/backend/internal/logger"
)

// FallbackReply is sent when the assistant is missing or fails.
const FallbackReply = "Спасибо за ваш вопрос! Наши специалисты скоро свяжутся с вами."

var ErrEmptyMessage = errors.New("service: message is required")

// Support answers artist questions through the AI assistant.
type Support struct {
	assistant ports.Assistant
}

// NewSupport constructs Support. A nil assistant always gets the fallback.
func NewSupport(assistant ports.Assistant) *Support {
	return &Support{assistant: assistant}
}

func (s *Support) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if s.assistant == nil {
		return FallbackReply, nil
	}
	reply, err := s.assistant.Reply(ctx, message)
	if err != nil {
		logger.Warn(logger.EventRemoteError, "assistant failed, using fallback reply", logger.Fields("error", err))
		return FallbackReply, nil
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}
