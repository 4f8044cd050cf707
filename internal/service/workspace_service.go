package service

import (
	"context"

	"taskplan/internal/auth"
	"taskplan/internal/model"
)

var colorPattern = regexpMustCompileColor()

// WorkspaceInput carries fields for creating a workspace.
type WorkspaceInput struct {
	Name     string
	Color    string
	Icon     *string
	Position int
}

// WorkspacePatch is a partial workspace update.
type WorkspacePatch struct {
	Name     *string
	Color    *string
	Icon     *string
	Position *int
}

// WorkspaceService provides helpers around workspaces.
type WorkspaceService struct {
	workspaces WorkspaceStore
}

func NewWorkspaceService(workspaces WorkspaceStore) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces}
}

func (s *WorkspaceService) Create(ctx context.Context, input WorkspaceInput) (*model.Workspace, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if input.Name == "" {
		return nil, invalid("name", "workspace name is required")
	}
	color := input.Color
	if color == "" {
		color = "#6366f1"
	}
	if !colorPattern.MatchString(color) {
		return nil, invalid("color", "invalid color format")
	}
	ws := model.Workspace{
		UserID:   userID,
		Name:     input.Name,
		Color:    color,
		Icon:     input.Icon,
		Position: input.Position,
	}
	if err := s.workspaces.Create(ctx, &ws); err != nil {
		return nil, storeErr(err)
	}
	return &ws, nil
}

func (s *WorkspaceService) List(ctx context.Context) ([]model.Workspace, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	workspaces, err := s.workspaces.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return workspaces, nil
}

func (s *WorkspaceService) Update(ctx context.Context, id string, patch WorkspacePatch) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	fields := map[string]any{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return invalid("name", "workspace name is required")
		}
		fields["name"] = *patch.Name
	}
	if patch.Color != nil {
		if !colorPattern.MatchString(*patch.Color) {
			return invalid("color", "invalid color format")
		}
		fields["color"] = *patch.Color
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
	if err := s.workspaces.Update(ctx, userID, id, fields); err != nil {
		return storeErr(err)
	}
	return nil
}

// Delete removes the workspace and everything in it: tasks, categories, and
// recurring templates.
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.workspaces.Delete(ctx, userID, id); err != nil {
		return storeErr(err)
	}
	return nil
}
