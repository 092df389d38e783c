package prompts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

type promptStoreStub struct {
	byID     map[int64]model.Prompt
	answered map[int64]bool
	nextID   int64
}

func (s *promptStoreStub) ListActive(context.Context) ([]model.Prompt, error) {
	out := []model.Prompt{}
	for _, p := range s.byID {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *promptStoreStub) ListAll(context.Context) ([]model.Prompt, error) {
	out := []model.Prompt{}
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, nil
}

func (s *promptStoreStub) Create(_ context.Context, text, category string) (model.Prompt, error) {
	s.nextID++
	p := model.Prompt{ID: s.nextID, Text: text, Category: category, IsActive: true}
	s.byID[p.ID] = p
	return p, nil
}

func (s *promptStoreStub) Update(_ context.Context, p model.Prompt) error {
	if _, ok := s.byID[p.ID]; !ok {
		return pgrepo.ErrPromptNotFound
	}
	s.byID[p.ID] = p
	return nil
}

func (s *promptStoreStub) HasAnswers(_ context.Context, id int64) (bool, error) {
	return s.answered[id], nil
}

func (s *promptStoreStub) Deactivate(_ context.Context, id int64) error {
	p, ok := s.byID[id]
	if !ok {
		return pgrepo.ErrPromptNotFound
	}
	p.IsActive = false
	s.byID[id] = p
	return nil
}

func (s *promptStoreStub) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return pgrepo.ErrPromptNotFound
	}
	delete(s.byID, id)
	return nil
}

func newFixture() (*Service, *promptStoreStub) {
	store := &promptStoreStub{byID: map[int64]model.Prompt{}, answered: map[int64]bool{}}
	return NewService(store), store
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, "  Two truths and a lie  ", "fun")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Text != "Two truths and a lie" || !p.IsActive {
		t.Fatalf("unexpected prompt: %+v", p)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active prompt, got %d", len(active))
	}

	if _, err := svc.Create(ctx, "   ", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty text, got %v", err)
	}
	if _, err := svc.Create(ctx, strings.Repeat("x", maxPromptTextLength+1), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized text, got %v", err)
	}
}

func TestDeleteUnansweredPromptRemovesIt(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()

	p, _ := svc.Create(ctx, "Ideal sunday", "")
	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.byID[p.ID]; ok {
		t.Fatal("unanswered prompt should be gone")
	}
}

func TestDeleteAnsweredPromptDeactivates(t *testing.T) {
	svc, store := newFixture()
	ctx := context.Background()

	p, _ := svc.Create(ctx, "Ideal sunday", "")
	store.answered[p.ID] = true

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	kept, ok := store.byID[p.ID]
	if !ok {
		t.Fatal("answered prompt must survive deletion")
	}
	if kept.IsActive {
		t.Fatal("answered prompt should be deactivated instead")
	}

	active, _ := svc.ListActive(ctx)
	if len(active) != 0 {
		t.Fatalf("deactivated prompt must leave the catalogue, got %+v", active)
	}
	all, _ := svc.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("admin listing should still show it, got %+v", all)
	}
}

func TestUpdateUnknownPrompt(t *testing.T) {
	svc, _ := newFixture()

	err := svc.Update(context.Background(), model.Prompt{ID: 9, Text: "hello"})
	if !errors.Is(err, ErrPromptNotFound) {
		t.Fatalf("expected ErrPromptNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), 9); !errors.Is(err, ErrPromptNotFound) {
		t.Fatalf("expected ErrPromptNotFound on delete, got %v", err)
	}
}
