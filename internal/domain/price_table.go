package domain

import (
	"fmt"
	"sync"
)

// PriceTable holds the current rate card.
// Writers swap in a freshly built card; readers never see one being modified.
type PriceTable struct {
	mu   sync.RWMutex
	card *RateCard
}

// NewPriceTable creates a price table populated with the built-in rates.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		mu:   sync.RWMutex{},
		card: DefaultRateCard(),
	}
}

// Current returns the rate card in effect.
func (t *PriceTable) Current() *RateCard {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.card
}

// ModelRate returns the rate pair for a model, falling back for unknown models.
func (t *PriceTable) ModelRate(model string) ModelRate {
	return t.Current().ModelRate(model)
}

// UnitRate returns the rate for a dimension.
func (t *PriceTable) UnitRate(dim Dimension) UnitRate {
	return t.Current().UnitRate(dim)
}

// Revision counts the writes applied to the table.
func (t *PriceTable) Revision() uint64 {
	return t.Current().Revision()
}

// ApplyOverride sets the rate pair of a recognized model.
// Both rates must be present; otherwise the table is left untouched and false is returned.
// Writing the pair already in effect is accepted without counting as a revision.
func (t *PriceTable) ApplyOverride(model string, input, output *float64) bool {
	if !IsKnownModel(model) || input == nil || output == nil {
		return false
	}

	rate := ModelRate{Input: *input, Output: *output}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.card.models[model] == rate {
		return true
	}

	next := t.card.clone()
	next.models[model] = rate
	next.revision++
	t.card = next

	return true
}

// ApplySnapshot applies every usable override of a snapshot as a single update.
// It returns how many model tiers ended up with a different pair.
func (t *PriceTable) ApplySnapshot(snap *Snapshot) int {
	if snap == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.card.clone()
	applied := 0
	for model, override := range snap.Models {
		if !IsKnownModel(model) || override.Input == nil || override.Output == nil {
			continue
		}

		rate := ModelRate{Input: *override.Input, Output: *override.Output}
		if next.models[model] == rate {
			continue
		}
		next.models[model] = rate
		applied++
	}

	if snap.LastUpdated != "" {
		next.lastUpdated = snap.LastUpdated
	}

	if applied == 0 && next.lastUpdated == t.card.lastUpdated {
		return 0
	}

	next.revision++
	t.card = next

	return applied
}

// SetUnitRate replaces the rate of a non-LLM dimension.
func (t *PriceTable) SetUnitRate(dim Dimension, rate UnitRate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.card.units[dim]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
	}
	if current == rate {
		return nil
	}

	next := t.card.clone()
	next.units[dim] = rate
	next.revision++
	t.card = next

	return nil
}
