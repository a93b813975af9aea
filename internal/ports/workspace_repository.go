package ports

import (
	"context"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
)

// WorkspaceRepository persists the whole workspace as one unit. Load reports
// ok=false when nothing has been saved yet.
type WorkspaceRepository interface {
	Load(ctx context.Context) (workspace domain.Workspace, ok bool, err error)
	Save(ctx context.Context, workspace domain.Workspace) error
}
