package driving

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// SearchService ranks a scope's chunks against a text query.
type SearchService interface {
	// SearchSimilarContent embeds the query and returns the top-k chunks
	// of the scope ranked by cosine similarity. Results never cross the
	// scope boundary.
	SearchSimilarContent(ctx context.Context, scope domain.Scope, query string, k int) ([]domain.SearchResult, error)
}
