package facets

import (
	"strconv"

	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/types"
)

func parseGeoId(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// valueWithSelection folds a chosen suggestion into the facet's display
// value according to the facet kind. Single-value facets replace atomically;
// set facets append with their dedupe rule.
func (c *Controller) valueWithSelection(item suggest.Suggestion) types.FacetValue {
	switch c.desc.Kind {
	case types.KindGeo:
		id, ok := parseGeoId(item.Id)
		if !ok {
			return c.displayValue()
		}
		set, _ := c.displayValue().(types.GeoSet)
		return set.With(types.GeoPlace{Id: id})
	case types.KindStringSet:
		value := item.Value()
		if c.desc.HandleSet {
			value = types.NormalizeHandle(value)
		}
		if value == "" {
			return c.displayValue()
		}
		set, _ := c.displayValue().(types.StringSet)
		return set.With(value, c.desc.HandleSet)
	case types.KindHashtagSet:
		set, _ := c.displayValue().(types.HashtagSet)
		return set.With(types.Hashtag{Name: item.Value()})
	case types.KindLanguageShare:
		set, _ := c.displayValue().(types.LanguageShareSet)
		return set.With(types.LanguageShare{Code: item.Value()})
	case types.KindText:
		// Single-selection: the previous value is evicted by replacement.
		return types.Text(item.Value())
	}
	return c.displayValue()
}

func (c *Controller) valueWithoutEntry(identifier string) types.FacetValue {
	switch current := c.displayValue().(type) {
	case types.GeoSet:
		if id, ok := parseGeoId(identifier); ok {
			return types.NormalizeEmpty(current.Without(id))
		}
		return current
	case types.StringSet:
		if c.desc.HandleSet {
			identifier = types.NormalizeHandle(identifier)
		}
		return types.NormalizeEmpty(current.Without(identifier, c.desc.HandleSet))
	case types.HashtagSet:
		return types.NormalizeEmpty(current.Without(identifier))
	case types.LanguageShareSet:
		return types.NormalizeEmpty(current.Without(identifier))
	case types.Text, types.Timestamp, types.Range, types.WeightedCode:
		return nil
	}
	return nil
}

// SetRange emits a range value. Out-of-order bounds are accepted as typed;
// the search service receives them unchanged.
func (c *Controller) SetRange(low, high *float64) {
	c.emit(types.Range{Low: low, High: high})
}

// SetWeighted emits an enum-with-weight value. An empty code with zero
// weight is the explicit "Any" sentinel, not an unset key.
func (c *Controller) SetWeighted(code string, weight float64) {
	c.emit(types.WeightedCode{Code: code, Weight: weight})
}

// SetAny emits the zero-weight sentinel.
func (c *Controller) SetAny() {
	c.emit(types.AnyWeightedCode())
}

// SetText emits a scalar text value, replacing any previous one.
func (c *Controller) SetText(value string) {
	c.emit(types.Text(value))
}

// SetTimestamp emits a unix-seconds scalar (last-post cutoff).
func (c *Controller) SetTimestamp(ts int64) {
	c.emit(types.Timestamp(ts))
}

// SelectGeo adds a location with an explicit audience weight.
func (c *Controller) SelectGeo(id int64, weight float64, label string) {
	if c.labels != nil && label != "" {
		c.labels.RememberGeo(id, label)
	}
	set, _ := c.displayValue().(types.GeoSet)
	c.emit(set.With(types.GeoPlace{Id: id, Weight: weight}))
}

// SetGeoWeight updates the audience weight of an already-selected location.
func (c *Controller) SetGeoWeight(id int64, weight float64) {
	set, ok := c.displayValue().(types.GeoSet)
	if !ok {
		return
	}
	c.emit(set.With(types.GeoPlace{Id: id, Weight: weight}))
}

// SelectLanguageShare upserts an audience language with a minimum share.
func (c *Controller) SelectLanguageShare(code string, percentage float64, label string) {
	if c.labels != nil && label != "" {
		c.labels.Remember(code, label)
	}
	set, _ := c.displayValue().(types.LanguageShareSet)
	c.emit(set.With(types.LanguageShare{Code: code, Percentage: percentage}))
}

// AddValue appends a plain value to a set facet without a suggestion round
// trip (sync set facets such as account types).
func (c *Controller) AddValue(value string) {
	c.SelectSuggestion(suggest.Suggestion{Name: value, Label: value})
}
