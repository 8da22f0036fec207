package shortlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeKey(t *testing.T) {
	tests := []struct {
		name      string
		randomKey string
		unique    string
		expected  string
	}{
		{name: "single digit unique", randomKey: "WXYZ", unique: "a", expected: "WXaYZ"},
		{name: "longer unique", randomKey: "ab12", unique: "xyz", expected: "abxyz12"},
		{name: "empty unique", randomKey: "WXYZ", unique: "", expected: "WXYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := MergeKey(tt.randomKey, tt.unique)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestMergeKey_BadRandomKeyLength(t *testing.T) {
	for _, randomKey := range []string{"", "abc", "abcde"} {
		_, err := MergeKey(randomKey, "a")

		assert.Error(t, err, "random key %q must be rejected", randomKey)
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		name       string
		shortKey   string
		wantUnique string
		wantRandom string
	}{
		{name: "single digit unique", shortKey: "WXaYZ", wantUnique: "a", wantRandom: "WXYZ"},
		{name: "longer unique", shortKey: "abxyz12", wantUnique: "xyz", wantRandom: "ab12"},
		{name: "no unique part", shortKey: "WXYZ", wantUnique: "", wantRandom: "WXYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, randomKey, err := SplitKey(tt.shortKey)

			require.NoError(t, err)
			assert.Equal(t, tt.wantUnique, unique)
			assert.Equal(t, tt.wantRandom, randomKey)
		})
	}
}

func TestSplitKey_TooShort(t *testing.T) {
	for _, shortKey := range []string{"", "a", "ab", "abc"} {
		_, _, err := SplitKey(shortKey)

		assert.Error(t, err, "short key %q must be rejected", shortKey)
	}
}

func TestMergeSplit_RoundTrip(t *testing.T) {
	randomKeys := []string{"WXYZ", "ab12", "0000", "zZ9a"}
	uniques := []string{"", "a", "9", "abc", "longerUniquePart42"}

	for _, r := range randomKeys {
		for _, u := range uniques {
			key, err := MergeKey(r, u)
			require.NoError(t, err)

			gotUnique, gotRandom, err := SplitKey(key)
			require.NoError(t, err)
			assert.Equal(t, u, gotUnique)
			assert.Equal(t, r, gotRandom)
		}
	}
}

func TestEncodeMergeSplitDecode_EndToEnd(t *testing.T) {
	unique, err := EncodeID(1)
	require.NoError(t, err)
	require.Equal(t, "a", unique)

	shortKey, err := MergeKey("WXYZ", unique)
	require.NoError(t, err)
	require.Equal(t, "WXaYZ", shortKey)

	gotUnique, gotRandom, err := SplitKey(shortKey)
	require.NoError(t, err)
	assert.Equal(t, "a", gotUnique)
	assert.Equal(t, "WXYZ", gotRandom)

	id, err := DecodeID(gotUnique)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
