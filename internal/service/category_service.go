package service

import (
	"context"
	"regexp"

	"taskplan/internal/auth"
	"taskplan/internal/model"
)

func regexpMustCompileColor() *regexp.Regexp {
	return regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
}

// CategoryInput carries fields for creating a category.
type CategoryInput struct {
	WorkspaceID string
	Name        string
	Color       *string
	Icon        *string
	Position    int
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name     *string
	Color    *string
	Icon     *string
	Position *int
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if input.Name == "" {
		return nil, invalid("name", "category name is required")
	}
	if input.WorkspaceID == "" {
		return nil, invalid("workspace_id", "workspace is required")
	}
	if input.Color != nil && !colorPattern.MatchString(*input.Color) {
		return nil, invalid("color", "invalid color format")
	}
	category := model.Category{
		UserID:      userID,
		WorkspaceID: input.WorkspaceID,
		Name:        input.Name,
		Color:       input.Color,
		Icon:        input.Icon,
		Position:    input.Position,
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, storeErr(err)
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context, workspaceID string) ([]model.Category, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	categories, err := s.categories.ListByWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return nil, storeErr(err)
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	fields := map[string]any{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return invalid("name", "category name is required")
		}
		fields["name"] = *patch.Name
	}
	if patch.Color != nil {
		if *patch.Color != "" && !colorPattern.MatchString(*patch.Color) {
			return invalid("color", "invalid color format")
		}
		fields["color"] = nullableString(*patch.Color)
	}
	if patch.Icon != nil {
		fields["icon"] = nullableString(*patch.Icon)
	}
	if patch.Position != nil {
		fields["position"] = *patch.Position
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.categories.Update(ctx, userID, id, fields); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return storeErr(err)
	}
	return nil
}
