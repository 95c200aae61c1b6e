package roles

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) interface{} {
	var doc interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestExtract_StructuredShape(t *testing.T) {
	doc := mustParse(t, `{"roleGroups":[{"roles":[{"navn":"Kari Nordmann","type":"STYRELEDER","fradato":"2019-01-01"}]}]}`)

	records := Extract(doc)

	require.Len(t, records, 1)
	assert.Equal(t, "Kari Nordmann", records[0].PersonName)
	assert.Equal(t, "STYRELEDER", records[0].RoleCode)
	assert.Equal(t, "2019-01-01", records[0].StartDate)
	assert.Empty(t, records[0].EndDate)
	assert.True(t, records[0].Active)
}

func TestExtract_NorwegianStructuredShape(t *testing.T) {
	doc := mustParse(t, `{"rollegrupper":[{"type":{"kode":"STYR","beskrivelse":"Styre"},"roller":[
		{"type":{"kode":"LEDE","beskrivelse":"Styrets leder"},"person":{"navn":{"fornavn":"Kari","etternavn":"Nordmann"}},"fradato":"2018-03-01"},
		{"type":{"kode":"MEDL","beskrivelse":"Styremedlem"},"person":{"navn":{"fornavn":"Ola","mellomnavn":"Petter","etternavn":"Hansen"}},"fratraadt":true}
	]}]}`)

	records := Extract(doc)

	require.Len(t, records, 2)
	assert.Equal(t, "Kari Nordmann", records[0].PersonName)
	assert.Equal(t, "LEDE", records[0].RoleCode)
	assert.Equal(t, "Styrets leder", records[0].RoleText)
	assert.True(t, records[0].Active)
	assert.Equal(t, "Ola Petter Hansen", records[1].PersonName)
	assert.True(t, records[1].Resigned)
	assert.False(t, records[1].Active)
}

func TestExtract_DeduplicatesAcrossPaths(t *testing.T) {
	doc := mustParse(t, `{
		"roleGroups":[{"roles":[{"navn":"Kari Nordmann","type":"STYRELEDER","fradato":"2019-01-01"}]}],
		"history":[{"navn":"Kari Nordmann","type":"STYRELEDER","fradato":"2019-01-01"}]
	}`)

	records := Extract(doc)

	require.Len(t, records, 1)
	assert.Equal(t, "Kari Nordmann", records[0].PersonName)
}

func TestExtract_FreeformShapeWithNestedPersonName(t *testing.T) {
	doc := mustParse(t, `{"person":{"navn":{"fornavn":"Ola","etternavn":"Hansen"}},"rolle":"DAGL","tildato":"2021-06-01"}`)

	records := Extract(doc)

	require.Len(t, records, 1)
	assert.Equal(t, "Ola Hansen", records[0].PersonName)
	assert.Equal(t, "DAGL", records[0].RoleCode)
	assert.Equal(t, "2021-06-01", records[0].EndDate)
	assert.False(t, records[0].Active)
}

func TestExtract_EquivalentShapesYieldSameRecord(t *testing.T) {
	structured := mustParse(t, `{"rollegrupper":[{"roller":[{"navn":"Kari Nordmann","rolle":"LEDER","fradato":"2019-01-01"}]}]}`)
	freeform := mustParse(t, `{"history":[{"navn":"Kari Nordmann","rolle":"LEDER","fradato":"2019-01-01"}]}`)

	a := Extract(structured)
	b := Extract(freeform)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0], b[0])
}

func TestExtract_TotalOnDegenerateInputs(t *testing.T) {
	inputs := []interface{}{
		nil,
		map[string]interface{}{},
		[]interface{}{},
		"just a string",
		42.0,
		true,
		mustParse(t, `{"foo":"bar"}`),
		mustParse(t, `[[[["deep"]]],{"a":{"b":{"c":null}}}]`),
		mustParse(t, `{"rollegrupper":"not-a-list"}`),
		mustParse(t, `{"rollegrupper":[{"roller":[null,"x",17]}]}`),
		mustParse(t, `{"rolle":{"kode":null},"navn":123}`),
	}
	for _, doc := range inputs {
		assert.Empty(t, Extract(doc))
	}
}

func TestExtract_RejectsEmptyRoleAndMissingName(t *testing.T) {
	records := Extract(mustParse(t, `{"rolle":""}`))
	assert.Empty(t, records)

	records = Extract(mustParse(t, `{"rolle":"DAGL","navn":"   "}`))
	assert.Empty(t, records)
}

func TestExtract_RoleObjectFieldFallbacks(t *testing.T) {
	onlyCode := Extract(mustParse(t, `{"navn":"Kari Nordmann","rolle":{"kode":"PROK"}}`))
	require.Len(t, onlyCode, 1)
	assert.Equal(t, "PROK", onlyCode[0].RoleCode)
	assert.Equal(t, "PROK", onlyCode[0].RoleText)

	onlyText := Extract(mustParse(t, `{"navn":"Kari Nordmann","rolle":{"beskrivelse":"Prokurist"}}`))
	require.Len(t, onlyText, 1)
	assert.Equal(t, "PROKURIST", onlyText[0].RoleCode)
	assert.Equal(t, "Prokurist", onlyText[0].RoleText)
}

func TestExtract_DateFieldFallbacks(t *testing.T) {
	records := Extract(mustParse(t, `{"navn":"Kari Nordmann","rolle":"VARA","registrertDato":"2015-02-10","avregistrertDato":"2020-09-30"}`))

	require.Len(t, records, 1)
	assert.Equal(t, "2015-02-10", records[0].StartDate)
	assert.Equal(t, "2020-09-30", records[0].EndDate)
	assert.False(t, records[0].Active)
}

func TestExtract_InvariantsOnMixedDocument(t *testing.T) {
	doc := mustParse(t, `{
		"rollegrupper":[{"roller":[
			{"navn":"Kari Nordmann","rolle":"LEDER","fradato":"2019-01-01"},
			{"navn":"Per Olsen","rolle":"STYRMEDL","tildato":"2020-01-01"},
			{"navn":"","rolle":"VARA"}
		]}],
		"historikk":[
			{"navn":"Per Olsen","rolle":"styrmedl","tildato":"2020-01-01"},
			{"navn":"Nina Berg","rolle":"DAGL","fratraadt":true}
		]
	}`)

	records := Extract(doc)

	seen := map[string]bool{}
	for _, r := range records {
		assert.NotEmpty(t, strings.TrimSpace(r.PersonName))
		key := r.PersonName + "|" + strings.ToUpper(r.RoleCode) + "|" + r.StartDate + "|" + r.EndDate
		assert.False(t, seen[key], "duplicate record %s", key)
		seen[key] = true
		assert.Equal(t, r.EndDate == "" && !r.Resigned, r.Active)
	}
	require.Len(t, records, 3)
}

func TestExtract_Idempotent(t *testing.T) {
	doc := mustParse(t, `{"rollegrupper":[{"roller":[
		{"navn":"Kari Nordmann","rolle":"LEDER","fradato":"2019-01-01"},
		{"navn":"Ola Hansen","rolle":"DAGL"}
	]}]}`)

	first := Extract(doc)
	second := Extract(doc)

	assert.ElementsMatch(t, first, second)
}
