package types

import (
	"encoding/json"
	"fmt"
	"maps"
)

// FilterSnapshot maps facet key to value. The applied snapshot and any
// display view are both FilterSnapshots; absent key means unset.
type FilterSnapshot map[FacetKey]FacetValue

// PendingDelta holds only keys touched since the last Apply. A key present
// with a nil value means "explicitly cleared".
type PendingDelta map[FacetKey]FacetValue

func (s FilterSnapshot) Clone() FilterSnapshot {
	out := make(FilterSnapshot, len(s))
	maps.Copy(out, s)
	return out
}

// Overlay returns applied ⊕ pending, right-biased. Nil delta entries remove
// the key so an explicit clear hides the applied value.
func (s FilterSnapshot) Overlay(delta PendingDelta) FilterSnapshot {
	out := s.Clone()
	for k, v := range delta {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func (s FilterSnapshot) Keys() []FacetKey {
	out := make([]FacetKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// DecodeValue parses a raw JSON facet value into the concrete type for the
// given kind. A JSON null decodes to nil (explicit clear).
func DecodeValue(kind FacetValueKind, raw json.RawMessage) (FacetValue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case KindRange:
		var v Range
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindWeightedCode:
		var v WeightedCode
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindStringSet:
		var v StringSet
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindHashtagSet:
		var v HashtagSet
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindLanguageShare:
		var v LanguageShareSet
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindText:
		var v Text
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindTimestamp:
		var v Timestamp
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	case KindGeo:
		var v GeoSet
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return NormalizeEmpty(v), nil
	}
	return nil, fmt.Errorf("unknown facet value kind %q", kind)
}
