package events

import (
	"encoding/json"
	"strings"
)

// legacyFile is the older single-clip layout: one implicit clip name and a
// flat event list carrying only generic values, optionally with a string
// "type" tag and an attack sub-object.
type legacyFile struct {
	AnimationName string         `json:"animation_name"`
	Events        []legacyRecord `json:"events"`
}

type legacyRecord struct {
	Name        string        `json:"name"`
	Time        float64       `json:"time"`
	Frame       int           `json:"frame"`
	Type        string        `json:"type,omitempty"`
	IntValue    int           `json:"int_value"`
	FloatValue  float64       `json:"float_value"`
	StringValue string        `json:"string_value"`
	Attack      *attackRecord `json:"attack,omitempty"`
}

func isLegacy(raw map[string]json.RawMessage) bool {
	nameMsg, ok := raw["animation_name"]
	if !ok {
		return false
	}
	if _, ok := raw["events"]; !ok {
		return false
	}
	var name string
	return json.Unmarshal(nameMsg, &name) == nil
}

func decodeLegacy(data []byte) (File, error) {
	var lf legacyFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	recs := make([]record, 0, len(lf.Events))
	for _, le := range lf.Events {
		r := record{
			Name:        le.Name,
			Time:        le.Time,
			Frame:       le.Frame,
			Type:        TypeNormal,
			IntValue:    le.IntValue,
			FloatValue:  le.FloatValue,
			StringValue: le.StringValue,
		}
		if strings.EqualFold(strings.TrimSpace(le.Type), "attack") || le.Attack != nil {
			r.Type = TypeAttack
			r.Attack = le.Attack
		}
		recs = append(recs, r)
	}
	return File{lf.AnimationName: eventsFromRecords(recs)}, nil
}
