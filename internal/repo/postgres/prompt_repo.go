package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anayo007/linkup/internal/domain/model"
)

var ErrPromptNotFound = errors.New("prompt not found")

type PromptRepo struct {
	pool *pgxpool.Pool
}

func NewPromptRepo(pool *pgxpool.Pool) *PromptRepo {
	return &PromptRepo{pool: pool}
}

func (r *PromptRepo) ListActive(ctx context.Context) ([]model.Prompt, error) {
	return r.list(ctx, true)
}

func (r *PromptRepo) ListAll(ctx context.Context) ([]model.Prompt, error) {
	return r.list(ctx, false)
}

func (r *PromptRepo) list(ctx context.Context, activeOnly bool) ([]model.Prompt, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, text, COALESCE(category, ''), is_active
FROM prompts
WHERE $1::boolean = FALSE OR is_active = TRUE
ORDER BY category, id
`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	items := []model.Prompt{}
	for rows.Next() {
		var p model.Prompt
		if err := rows.Scan(&p.ID, &p.Text, &p.Category, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate prompts: %w", rows.Err())
	}

	return items, nil
}

func (r *PromptRepo) Create(ctx context.Context, text, category string) (model.Prompt, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Prompt{}, fmt.Errorf("prompt text is required")
	}

	var p model.Prompt
	err := r.pool.QueryRow(ctx, `
INSERT INTO prompts (text, category, is_active)
VALUES ($1, $2, TRUE)
RETURNING id, text, COALESCE(category, ''), is_active
`, text, category).Scan(&p.ID, &p.Text, &p.Category, &p.IsActive)
	if err != nil {
		return model.Prompt{}, fmt.Errorf("create prompt: %w", err)
	}

	return p, nil
}

func (r *PromptRepo) Update(ctx context.Context, p model.Prompt) error {
	if p.ID <= 0 || strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("invalid prompt payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE prompts
SET text = $2, category = $3, is_active = $4
WHERE id = $1
`, p.ID, strings.TrimSpace(p.Text), p.Category, p.IsActive)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPromptNotFound
	}

	return nil
}

func (r *PromptRepo) HasAnswers(ctx context.Context, promptID int64) (bool, error) {
	if promptID <= 0 {
		return false, fmt.Errorf("invalid prompt id")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM prompt_answers
WHERE prompt_id = $1
LIMIT 1
`, promptID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check prompt answers: %w", err)
	}

	return true, nil
}

func (r *PromptRepo) Deactivate(ctx context.Context, promptID int64) error {
	if promptID <= 0 {
		return fmt.Errorf("invalid prompt id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE prompts
SET is_active = FALSE
WHERE id = $1
`, promptID)
	if err != nil {
		return fmt.Errorf("deactivate prompt: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPromptNotFound
	}

	return nil
}

func (r *PromptRepo) Delete(ctx context.Context, promptID int64) error {
	if promptID <= 0 {
		return fmt.Errorf("invalid prompt id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM prompts
WHERE id = $1
`, promptID)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPromptNotFound
	}

	return nil
}

// ReplaceAnswers rewrites the user's prompt answers; positions re-indexed
// from 0 in slice order.
func (r *PromptRepo) ReplaceAnswers(ctx context.Context, tx pgx.Tx, userID int64, answers []model.PromptAnswer) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM prompt_answers
WHERE user_id = $1
`, userID); err != nil {
		return fmt.Errorf("clear prompt answers: %w", err)
	}

	for i, a := range answers {
		if _, err := tx.Exec(ctx, `
INSERT INTO prompt_answers (
	user_id,
	prompt_id,
	answer,
	position
) VALUES ($1, $2, $3, $4)
`, userID, a.PromptID, a.Answer, i); err != nil {
			return fmt.Errorf("insert prompt answer %d: %w", i, err)
		}
	}

	return nil
}

// AnswersByUsers returns each user's answers with prompt text, ordered by
// position.
func (r *PromptRepo) AnswersByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.PromptAnswer, error) {
	out := make(map[int64][]model.PromptAnswer, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	pa.id,
	pa.user_id,
	pa.prompt_id,
	pr.text,
	pa.answer,
	pa.position
FROM prompt_answers pa
JOIN prompts pr ON pr.id = pa.prompt_id
WHERE pa.user_id = ANY($1)
ORDER BY pa.user_id, pa.position
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list prompt answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.PromptAnswer
		if err := rows.Scan(&a.ID, &a.UserID, &a.PromptID, &a.PromptText, &a.Answer, &a.Position); err != nil {
			return nil, fmt.Errorf("scan prompt answer: %w", err)
		}
		out[a.UserID] = append(out[a.UserID], a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate prompt answers: %w", rows.Err())
	}

	return out, nil
}
