package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection_Aliases(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []uint
	}{
		{"canonical", `{"option_ids":[3,4]}`, []uint{3, 4}},
		{"camel case list", `{"optionIds":["5"," 6 "]}`, []uint{5, 6}},
		{"selected scalar", `{"selected":7}`, []uint{7}},
		{"legacy single", `{"option_id":"8"}`, []uint{8}},
		{"value list", `{"value":[1,2]}`, []uint{1, 2}},
		{"null alias skipped", `{"option_ids":null,"answer":9}`, []uint{9}},
		{"bare list", `[10,11]`, []uint{10, 11}},
		{"bare scalar", `12`, []uint{12}},
		{"bare string", `"13"`, []uint{13}},
		{"empty list", `{"option_ids":[]}`, []uint{}},
		{"null", `null`, []uint{}},
		{"empty", ``, []uint{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseSelection([]byte(c.raw))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseSelection_Malformed(t *testing.T) {
	cases := []string{
		`{"comment":"nothing here"}`,
		`{"option_ids":[1,[2]]}`,
		`{"option_id":true}`,
		`"abc"`,
		`-4`,
		`1.5`,
		`0`,
		`{not json`,
	}

	for _, raw := range cases {
		_, err := ParseSelection([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedAnswerData, raw)
	}
}

func TestNewSelectionPayload_RoundTrip(t *testing.T) {
	payload, err := NewSelectionPayload([]uint{2, 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"option_ids":[2,5]}`, string(payload))

	answer := Answer{Payload: payload}
	ids, err := answer.OptionIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5}, ids)

	empty, err := NewSelectionPayload(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"option_ids":[]}`, string(empty))
}
