package activity

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainLookup(activities map[int64]*models.Activity) parentLookup {
	return func(ctx context.Context, id int64) (*models.Activity, error) {
		return activities[id], nil
	}
}

func ptr(id int64) *int64 {
	return &id
}

func TestCheckActivityDepth(t *testing.T) {
	// A (1) -> B (2) -> C (3)
	chain := map[int64]*models.Activity{
		1: {ID: 1, Name: "Еда"},
		2: {ID: 2, Name: "Молочная продукция", ParentID: ptr(1)},
		3: {ID: 3, Name: "Сыры", ParentID: ptr(2)},
	}

	tests := []struct {
		name       string
		parentID   int64
		wantErr    bool
		wantStatus int
	}{
		{
			name:     "parent at root allows second level",
			parentID: 1,
		},
		{
			name:     "parent at second level allows third level",
			parentID: 2,
		},
		{
			name:       "parent at third level rejects fourth level",
			parentID:   3,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown parent rejected",
			parentID:   99,
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkActivityDepth(context.Background(), tt.parentID, chainLookup(chain))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, httperror.GetStatusCode(err))
		})
	}
}

func TestCheckActivityDepthCycleBounded(t *testing.T) {
	// a corrupted cycle must terminate with a depth error, not spin forever
	cycle := map[int64]*models.Activity{
		1: {ID: 1, Name: "a", ParentID: ptr(2)},
		2: {ID: 2, Name: "b", ParentID: ptr(1)},
	}

	err := checkActivityDepth(context.Background(), 1, chainLookup(cycle))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
