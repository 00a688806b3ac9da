package repair

import (
	"errors"
	"testing"

	"github.com/jonathan/strongpass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		edit  types.Edit
		want  string
	}{
		{name: "insert front", input: "abc", edit: types.Edit{Kind: types.EditInsert, Offset: 0, Char: "Z"}, want: "Zabc"},
		{name: "insert middle", input: "aaa", edit: types.Edit{Kind: types.EditInsert, Offset: 2, Char: "9"}, want: "aa9a"},
		{name: "insert end", input: "ab", edit: types.Edit{Kind: types.EditInsert, Offset: 2, Char: "c"}, want: "abc"},
		{name: "insert into empty", input: "", edit: types.Edit{Kind: types.EditInsert, Offset: 0, Char: "z"}, want: "z"},
		{name: "delete", input: "abc", edit: types.Edit{Kind: types.EditDelete, Offset: 1}, want: "ac"},
		{name: "delete last", input: "abc", edit: types.Edit{Kind: types.EditDelete, Offset: 2}, want: "ab"},
		{name: "replace", input: "abc", edit: types.Edit{Kind: types.EditReplace, Offset: 1, Char: "Y"}, want: "aYc"},
		{name: "multibyte", input: "éé", edit: types.Edit{Kind: types.EditReplace, Offset: 1, Char: "ü"}, want: "éü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(apply([]rune(tt.input), tt.edit)))
		})
	}
}

func TestApply_UnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { apply([]rune("abc"), types.Edit{Kind: "swap"}) })
}

func TestReplay(t *testing.T) {
	edits := []types.Edit{
		{Kind: types.EditReplace, Offset: 2, Char: "Z", Previous: "a"},
		{Kind: types.EditReplace, Offset: 5, Char: "Z", Previous: "1"},
	}

	out, err := Replay("aaa111", edits)
	require.NoError(t, err)
	assert.Equal(t, "aaZ11Z", out)

	out, err = Replay("unchanged", nil)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		edit  types.Edit
	}{
		{name: "insert past end", input: "ab", edit: types.Edit{Kind: types.EditInsert, Offset: 3, Char: "x"}},
		{name: "negative offset", input: "ab", edit: types.Edit{Kind: types.EditDelete, Offset: -1}},
		{name: "delete past end", input: "ab", edit: types.Edit{Kind: types.EditDelete, Offset: 2}},
		{name: "replace on empty", input: "", edit: types.Edit{Kind: types.EditReplace, Offset: 0, Char: "x"}},
		{name: "previous mismatch", input: "ab", edit: types.Edit{Kind: types.EditDelete, Offset: 0, Previous: "b"}},
		{name: "multi rune char", input: "ab", edit: types.Edit{Kind: types.EditReplace, Offset: 0, Char: "xy"}},
		{name: "empty char", input: "ab", edit: types.Edit{Kind: types.EditInsert, Offset: 0}},
		{name: "unknown kind", input: "ab", edit: types.Edit{Kind: "swap", Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Replay(tt.input, []types.Edit{tt.edit})
			require.Error(t, err)
			assert.Empty(t, out)

			var applyErr *ApplyError
			require.True(t, errors.As(err, &applyErr))
			assert.Contains(t, applyErr.Error(), "index 0")
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}
