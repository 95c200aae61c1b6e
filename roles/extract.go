package roles

import (
	"strings"
)

// RoleRecord is one normalized officer/board position extracted from a raw
// registry role document.
type RoleRecord struct {
	PersonName string `json:"personName"`
	RoleCode   string `json:"roleCode"`
	RoleText   string `json:"roleText"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Resigned   bool   `json:"resigned,omitempty"`
	Active     bool   `json:"active"`
}

// Key orderings tried when probing a candidate object. The registry has
// shipped more than one response shape over time, so every lookup is an
// ordered fallback list rather than a single key.
var (
	roleGroupKeys  = []string{"rollegrupper", "roleGroups"}
	roleListKeys   = []string{"roller", "roles"}
	roleValueKeys  = []string{"rolle", "role", "type", "rolletype", "roleType"}
	historyKeys    = []string{"historikk", "history", "historicalRoles", "previousRoles"}
	personKeys     = []string{"person", "innehaver"}
	nameKeys       = []string{"navn", "name"}
	startDateKeys  = []string{"fradato", "fromDate", "registrertDato"}
	endDateKeys    = []string{"tildato", "toDate", "avregistrertDato"}
	resignedKeys   = []string{"fratraadt", "resigned"}
	roleCodeKeys   = []string{"kode", "code"}
	roleTextKeys   = []string{"beskrivelse", "description"}
	nameComponents = []string{"fornavn", "mellomnavn", "etternavn"}
)

// Extract walks an arbitrarily shaped role document and returns every person/
// role record it can find, deduplicated by (name, role code, start, end).
// It never fails: malformed or unexpected nodes yield no candidates and the
// walk continues. A nil document yields an empty result.
func Extract(doc interface{}) []RoleRecord {
	var found []RoleRecord

	// First pass: the structured rollegrupper -> roller shape, when present.
	if obj, ok := doc.(map[string]interface{}); ok {
		for _, groups := range lookupList(obj, roleGroupKeys) {
			group, ok := groups.(map[string]interface{})
			if !ok {
				continue
			}
			for _, entry := range lookupList(group, roleListKeys) {
				if rec, ok := buildCandidate(entry); ok {
					found = append(found, rec)
				}
			}
		}
	}

	// Second pass: full recursive walk. This deliberately over-collects;
	// duplicates reachable via several paths are removed below.
	walk(doc, &found)

	return dedupe(found)
}

func walk(node interface{}, found *[]RoleRecord) {
	switch v := node.(type) {
	case map[string]interface{}:
		if hasRoleishKey(v) {
			if rec, ok := buildCandidate(v); ok {
				*found = append(*found, rec)
			}
		}
		for _, child := range v {
			walk(child, found)
		}
	case []interface{}:
		for _, child := range v {
			walk(child, found)
		}
	}
}

func hasRoleishKey(obj map[string]interface{}) bool {
	for _, k := range roleValueKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	for _, k := range historyKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	for _, k := range roleListKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func buildCandidate(node interface{}) (RoleRecord, bool) {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return RoleRecord{}, false
	}

	name := resolveName(obj)
	if name == "" {
		return RoleRecord{}, false
	}

	code, text := resolveRole(obj)
	if code == "" && text == "" {
		return RoleRecord{}, false
	}

	rec := RoleRecord{
		PersonName: name,
		RoleCode:   strings.ToUpper(code),
		RoleText:   text,
		StartDate:  lookupString(obj, startDateKeys),
		EndDate:    lookupString(obj, endDateKeys),
		Resigned:   lookupBool(obj, resignedKeys),
	}
	rec.Active = rec.EndDate == "" && !rec.Resigned
	return rec, true
}

// resolveName prefers a nested person name over a top-level one. A name may
// itself be an object of first/middle/last parts, which are joined with
// single spaces.
func resolveName(obj map[string]interface{}) string {
	for _, pk := range personKeys {
		person, ok := obj[pk].(map[string]interface{})
		if !ok {
			continue
		}
		if name := resolveNameValue(lookup(person, nameKeys)); name != "" {
			return name
		}
		if name := joinNameParts(person); name != "" {
			return name
		}
	}
	return resolveNameValue(lookup(obj, nameKeys))
}

func resolveNameValue(v interface{}) string {
	switch name := v.(type) {
	case string:
		return strings.TrimSpace(name)
	case map[string]interface{}:
		return joinNameParts(name)
	}
	return ""
}

func joinNameParts(obj map[string]interface{}) string {
	var parts []string
	for _, k := range nameComponents {
		if p, ok := obj[k].(string); ok && strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// resolveRole accepts a role value that is either a plain string (used as
// both code and text) or an object carrying a code and/or description, each
// falling back to the other when absent.
func resolveRole(obj map[string]interface{}) (code string, text string) {
	for _, k := range roleValueKeys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), strings.TrimSpace(v)
			}
		case map[string]interface{}:
			code = lookupString(v, roleCodeKeys)
			text = lookupString(v, roleTextKeys)
			if code == "" {
				code = text
			}
			if text == "" {
				text = code
			}
			if code != "" || text != "" {
				return code, text
			}
		}
	}
	return "", ""
}

func dedupe(records []RoleRecord) []RoleRecord {
	type key struct {
		name, code, start, end string
	}
	seen := map[key]bool{}
	out := make([]RoleRecord, 0, len(records))
	for _, r := range records {
		k := key{r.PersonName, strings.ToUpper(r.RoleCode), r.StartDate, r.EndDate}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func lookup(obj map[string]interface{}, keys []string) interface{} {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func lookupString(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func lookupBool(obj map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if b, ok := obj[k].(bool); ok {
			return b
		}
	}
	return false
}

func lookupList(obj map[string]interface{}, keys []string) []interface{} {
	for _, k := range keys {
		if l, ok := obj[k].([]interface{}); ok {
			return l
		}
	}
	return nil
}
