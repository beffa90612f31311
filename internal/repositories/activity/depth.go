package activity

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// parentLookup resolves an activity by id. Returns nil when no activity exists.
type parentLookup func(ctx context.Context, id int64) (*models.Activity, error)

// checkActivityDepth walks the parent chain upward from the prospective parent,
// counting one hop per link. The immediate parent counts as depth 1; the walk
// fails once depth exceeds models.MaxActivityDepth, so a node can never land on
// a 4th taxonomy level. The loop is bounded by the depth constant rather than
// recursive, so a corrupted parent cycle cannot hang the insert.
func checkActivityDepth(ctx context.Context, parentID int64, lookup parentLookup) error {
	current := parentID
	for depth := 1; ; depth++ {
		if depth > models.MaxActivityDepth {
			return httperror.NewHTTPError(http.StatusBadRequest, "maximum nesting depth exceeded")
		}

		parent, err := lookup(ctx, current)
		if err != nil {
			return err
		}
		if parent == nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "parent activity not found")
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}
