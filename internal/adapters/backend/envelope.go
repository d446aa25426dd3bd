package backend

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// collectionExpr unwraps the envelopes the backend uses for collections. Bare arrays pass through.
const collectionExpr = "listings || users || subscriptions || items || data || @"

var envelopeKeys = []string{"listings", "users", "subscriptions", "items", "data"}

// decodeCollection decodes a collection answer into out (a pointer to a slice), accepting
// either a bare JSON array or an object wrapping the array under a known key.
func decodeCollection(body []byte, out any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperrors.Backend(0, "The marketplace sent an unexpected response.", fmt.Errorf("decode collection: %w", err))
	}
	if doc == nil {
		return nil
	}

	result, err := jmespath.Search(collectionExpr, doc)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "evaluate collection envelope")
	}

	switch v := result.(type) {
	case []any:
		buf, err := json.Marshal(v)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "re-encode collection")
		}
		return decodeJSON(buf, out)
	case map[string]any:
		// An envelope with an empty array is falsy in JMESPath and falls through to @.
		for _, k := range envelopeKeys {
			if _, ok := v[k]; ok {
				return nil
			}
		}
	}
	return apperrors.Backend(0, "The marketplace sent an unexpected response.", fmt.Errorf("collection has unexpected shape %T", result))
}
