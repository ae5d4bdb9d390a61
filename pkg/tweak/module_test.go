package tweak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInfoValidate(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{name: "valid", info: Info{Name: "Compiz", Title: "Compiz Settings", Category: CategoryDesktop}},
		{name: "missing name", info: Info{Title: "x", Category: CategoryDesktop}, want: "name is required"},
		{name: "space in name", info: Info{Name: "Com piz", Title: "x", Category: CategoryDesktop}, want: "whitespace"},
		{name: "missing title", info: Info{Name: "Compiz", Category: CategoryDesktop}, want: "title is required"},
		{name: "bad category", info: Info{Name: "Compiz", Title: "x", Category: "games"}, want: "unknown category"},
		{name: "empty category", info: Info{Name: "Compiz", Title: "x"}, want: "unknown category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.info.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClassValidateRequiresConstructor(t *testing.T) {
	c := Class{Info: Info{Name: "Compiz", Title: "Compiz", Category: CategoryDesktop}}

	err := c.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "constructor is required")
}

func TestInfoURLLabel(t *testing.T) {
	assert.Equal(t, "More", Info{}.URLLabel())
	assert.Equal(t, "Homepage", Info{URLTitle: "Homepage"}.URLLabel())
}

func TestInfoYAMLIcon(t *testing.T) {
	var single, list Info
	require.NoError(t, yaml.Unmarshal([]byte("name: A\nicon: computer\n"), &single))
	require.NoError(t, yaml.Unmarshal([]byte("name: B\nicon: [missing, folder]\ninactive: true\n"), &list))

	assert.Equal(t, IconNames{"computer"}, single.Icon)
	assert.Equal(t, IconNames{"missing", "folder"}, list.Icon)
	assert.True(t, list.Inactive)
	assert.False(t, single.Inactive)
}
