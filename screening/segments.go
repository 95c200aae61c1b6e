package screening

import (
	"fmt"
	"sort"
	"strings"
)

// NACE prefix groups used to bucket companies into industry segments.
var segmentPrefixes = map[string][]string{
	"Tech":        {"62", "63"},
	"Energi":      {"35", "38", "39"},
	"Finans":      {"64", "65", "66"},
	"Bygg/Anlegg": {"41", "42", "43"},
	"Industri":    industrialPrefixes(),
	"Transport":   {"49", "50", "51", "52", "53"},
	"Helse":       {"86", "87", "88"},
	"Utdanning":   {"85"},
}

const segmentOther = "Annet"

// County filtering is done locally on the first two digits of the
// municipality number. The county structure has been reshuffled a few times;
// callers can always supply exact municipality numbers instead.
var countyPrefixes = map[string]string{
	"Oslo":                 "03",
	"Viken":                "30",
	"Innlandet":            "34",
	"Vestfold og Telemark": "38",
	"Agder":                "42",
	"Rogaland":             "11",
	"Vestland":             "46",
	"Møre og Romsdal":      "15",
	"Trøndelag":            "50",
	"Nordland":             "18",
	"Troms":                "19",
	"Finnmark":             "20",
	"Buskerud":             "33",
}

// Role categories map the UI-level labels onto registry role code prefixes.
var roleCategoryPrefixes = map[string][]string{
	"Daglig leder":       {"DAGL"},
	"Styreleder":         {"LEDER", "LEDE"},
	"Styremedlem":        {"STYRMEDL", "MEDL"},
	"Varamedlem":         {"VARA"},
	"Signaturberettiget": {"SIGN"},
	"Prokurist":          {"PROK"},
}

func industrialPrefixes() []string {
	prefixes := make([]string, 0, 24)
	for i := 10; i <= 33; i++ {
		prefixes = append(prefixes, fmt.Sprintf("%02d", i))
	}
	return prefixes
}

// segmentLabels buckets a company's NACE codes into segment labels,
// falling back to "Annet" when codes exist but match no segment.
func segmentLabels(naceCodes []string) []string {
	if len(naceCodes) == 0 {
		return nil
	}
	var labels []string
	for _, name := range segmentNames() {
		if anyCodeHasPrefix(naceCodes, segmentPrefixes[name]) {
			labels = append(labels, name)
		}
	}
	if len(labels) == 0 {
		return []string{segmentOther}
	}
	return labels
}

func anyCodeHasPrefix(codes []string, prefixes []string) bool {
	for _, code := range codes {
		for _, p := range prefixes {
			if strings.HasPrefix(code, p) {
				return true
			}
		}
	}
	return false
}

func matchesSegments(labels []string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, l := range labels {
			if l == w {
				return true
			}
		}
	}
	return false
}

// roleCategoryFor matches a role code against the selected categories by
// prefix, returning the matching category label. With no categories selected
// every record passes and is labelled with its raw code.
func roleCategoryFor(roleCode string, selected []string) (string, bool) {
	if len(selected) == 0 {
		return roleCode, true
	}
	upper := strings.ToUpper(roleCode)
	for _, label := range selected {
		for _, prefix := range roleCategoryPrefixes[label] {
			if strings.HasPrefix(upper, prefix) {
				return label, true
			}
		}
	}
	return "", false
}

func segmentNames() []string {
	names := make([]string, 0, len(segmentPrefixes))
	for name := range segmentPrefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func countyNames() []string {
	names := make([]string, 0, len(countyPrefixes))
	for name := range countyPrefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func roleCategoryNames() []string {
	names := make([]string, 0, len(roleCategoryPrefixes))
	for name := range roleCategoryPrefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
