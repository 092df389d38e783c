package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrPromptNotFound = errors.New("prompt not found")
)

const maxPromptTextLength = 200

type PromptStore interface {
	ListActive(ctx context.Context) ([]model.Prompt, error)
	ListAll(ctx context.Context) ([]model.Prompt, error)
	Create(ctx context.Context, text, category string) (model.Prompt, error)
	Update(ctx context.Context, p model.Prompt) error
	HasAnswers(ctx context.Context, promptID int64) (bool, error)
	Deactivate(ctx context.Context, promptID int64) error
	Delete(ctx context.Context, promptID int64) error
}

type Service struct {
	prompts PromptStore
}

func NewService(prompts PromptStore) *Service {
	return &Service{prompts: prompts}
}

// ListActive is the public catalogue users pick their prompts from.
func (s *Service) ListActive(ctx context.Context) ([]model.Prompt, error) {
	items, err := s.prompts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return items, nil
}

// ListAll includes deactivated prompts, for the admin screen.
func (s *Service) ListAll(ctx context.Context) ([]model.Prompt, error) {
	items, err := s.prompts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, text, category string) (model.Prompt, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxPromptTextLength {
		return model.Prompt{}, ErrValidation
	}

	p, err := s.prompts.Create(ctx, text, strings.TrimSpace(category))
	if err != nil {
		return model.Prompt{}, fmt.Errorf("create prompt: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, p model.Prompt) error {
	p.Text = strings.TrimSpace(p.Text)
	if p.ID <= 0 || p.Text == "" || len(p.Text) > maxPromptTextLength {
		return ErrValidation
	}

	if err := s.prompts.Update(ctx, p); err != nil {
		if errors.Is(err, pgrepo.ErrPromptNotFound) {
			return ErrPromptNotFound
		}
		return fmt.Errorf("update prompt: %w", err)
	}
	return nil
}

// Delete removes an unanswered prompt. A prompt someone has answered only
// deactivates, so existing profiles keep their text.
func (s *Service) Delete(ctx context.Context, promptID int64) error {
	if promptID <= 0 {
		return ErrValidation
	}

	answered, err := s.prompts.HasAnswers(ctx, promptID)
	if err != nil {
		return fmt.Errorf("check prompt answers: %w", err)
	}

	if answered {
		err = s.prompts.Deactivate(ctx, promptID)
	} else {
		err = s.prompts.Delete(ctx, promptID)
	}
	if err != nil {
		if errors.Is(err, pgrepo.ErrPromptNotFound) {
			return ErrPromptNotFound
		}
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}
