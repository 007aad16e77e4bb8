package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "work", want: Work},
		{in: "Travel", want: Travel},
		{in: "  WORK ", want: Work},
		{in: "holiday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemJSON(t *testing.T) {
	b, err := json.Marshal(Item{Text: "Pack bags", Category: Travel})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Pack bags","category":"travel"}`, string(b))

	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","category":"work"}`), &it))
	assert.Equal(t, Work, it.Category)

	assert.Error(t, json.Unmarshal([]byte(`{"text":"x","category":"beach"}`), &it))

	_, err = json.Marshal(Item{Text: "x", Category: Category(7)})
	assert.Error(t, err)
}

func TestCollectionKeysAndCount(t *testing.T) {
	c := Collection{
		"b": {Text: "Y", Category: Travel},
		"a": {Text: "X", Category: Work},
		"c": {Text: "Z", Category: Work},
	}
	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())
	assert.Equal(t, 2, c.Count(Work))
	assert.Equal(t, 1, c.Count(Travel))

	clone := c.Clone()
	delete(clone, "a")
	assert.Len(t, c, 3)
}
