package wikidata

import "encoding/json"

// propertyMapping binds a Wikidata property code to the semantic name used
// in flattened claims.
type propertyMapping struct {
	Code string
	Name string
}

// claimProperties is the fixed allow-list of statement properties. Order
// matters: flattening and related-entity discovery walk it top to bottom,
// which keeps output deterministic. Statements outside this table are
// dropped.
var claimProperties = []propertyMapping{
	{"P31", "type"},
	{"P279", "superclass"},
	{"P361", "part_of"},
	{"P527", "has_parts"},
	{"P17", "country"},
	{"P131", "located_in"},
	{"P569", "birth_date"},
	{"P570", "death_date"},
	{"P18", "image"},
	{"P856", "website"},
}

// rawClaim models the part of a wbgetentities statement we consume.
type rawClaim struct {
	Mainsnak struct {
		Snaktype  string        `json:"snaktype"`
		Datavalue *rawDatavalue `json:"datavalue"`
	} `json:"mainsnak"`
}

type rawDatavalue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// coerceValue flattens one datavalue into a scalar string. The three
// recognized shapes are entity references, point-in-time literals and plain
// strings; anything else is dropped rather than defaulted to an empty
// value, so malformed statements never leak into the output map.
func coerceValue(dv *rawDatavalue) (string, bool) {
	if dv == nil {
		return "", false
	}

	switch dv.Type {
	case "wikibase-entityid":
		var v struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.ID == "" {
			return "", false
		}
		return v.ID, true
	case "time":
		var v struct {
			Time string `json:"time"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil || v.Time == "" {
			return "", false
		}
		return v.Time, true
	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// flattenClaims maps allow-listed statements to their semantic names.
// A property whose statements all fail to coerce is omitted entirely.
func flattenClaims(raw map[string][]rawClaim) map[string][]string {
	out := make(map[string][]string)

	for _, prop := range claimProperties {
		statements, ok := raw[prop.Code]
		if !ok {
			continue
		}

		var values []string
		for _, st := range statements {
			if v, ok := coerceValue(st.Mainsnak.Datavalue); ok {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			out[prop.Name] = values
		}
	}

	return out
}
