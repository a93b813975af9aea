package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTab(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Tab
		wantErr bool
	}{
		{raw: "splitter", want: TabSplitter},
		{raw: " Generator ", want: TabGenerator},
		{raw: "DIRECTOR", want: TabDirector},
		{raw: "image", want: TabImage},
		{raw: "settings", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTab(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTab)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTabStepBadges(t *testing.T) {
	assert.Equal(t, "01", TabSplitter.Step())
	assert.Equal(t, "02", TabGenerator.Step())
	assert.Equal(t, "03", TabDirector.Step())
	assert.Equal(t, "EXTRA", TabImage.Step())
	assert.Equal(t, "", Tab("x").Step())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("model")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, role)

	role, err = ParseRole("User")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	_, err = ParseRole("system")
	assert.Error(t, err)
}

func TestDirectorSessionAppendDoesNotAlias(t *testing.T) {
	base := make(DirectorSession, 1, 4)
	base[0] = ChatTurn{Role: RoleUser, Content: "hello"}

	first := base.Append(ChatTurn{Role: RoleAssistant, Content: "a"})
	second := base.Append(ChatTurn{Role: RoleAssistant, Content: "b"})

	assert.Equal(t, "a", first[1].Content)
	assert.Equal(t, "b", second[1].Content)
	assert.Len(t, base, 1)

	last, ok := first.Last()
	require.True(t, ok)
	assert.Equal(t, "a", last.Content)

	_, ok = DirectorSession(nil).Last()
	assert.False(t, ok)
}
