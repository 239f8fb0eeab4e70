package snapshot

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/davidbz/costwatch/internal/domain"
)

const (
	modelIDPrefix  = "claude-"
	modelsPath     = "llm_models.anthropic.models"
	lastUpdatedKey = "last_updated"
)

// ErrMalformedDocument indicates the price document is not valid JSON.
var ErrMalformedDocument = errors.New("malformed price document")

// ModelID returns the document id of a model tier, e.g. "claude-opus-4.5".
func ModelID(tier string) string {
	return modelIDPrefix + tier
}

// tierForModelID maps a document model id to a recognized tier.
func tierForModelID(id string) (string, bool) {
	tier, ok := strings.CutPrefix(id, modelIDPrefix)
	if !ok || !domain.IsKnownModel(tier) {
		return "", false
	}
	return tier, true
}

// Parse reads a price document.
// Missing or mistyped parts are skipped, so a partial document yields a partial snapshot.
func Parse(data []byte) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		LastUpdated: "",
		Models:      make(map[string]domain.RateOverride),
	}

	if !gjson.ValidBytes(data) {
		return snap, ErrMalformedDocument
	}

	root := gjson.ParseBytes(data)

	if lastUpdated := root.Get(lastUpdatedKey); lastUpdated.Type == gjson.String {
		snap.LastUpdated = lastUpdated.String()
	}

	models := root.Get(modelsPath)
	if !models.IsObject() {
		return snap, nil
	}

	models.ForEach(func(key, value gjson.Result) bool {
		tier, ok := tierForModelID(key.String())
		if !ok {
			return true
		}

		snap.Models[tier] = domain.RateOverride{
			Input:  number(value.Get("input")),
			Output: number(value.Get("output")),
		}
		return true
	})

	return snap, nil
}

func number(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}
