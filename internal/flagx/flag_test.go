package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "notify.json", "-a", "localhost:8085"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "notify.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-t"},
			allowedFlags: []string{"-t"},
			want:         []string{"-t"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-a", "-l", "debug"},
			allowedFlags: []string{"-a", "-l"},
			want:         []string{"-a", "-l", "debug"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-a", "one:1", "-a", "two:2"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", "one:1", "-a", "two:2"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/notify.json", ConfigPath([]string{"-c", "/etc/notify.json"}))
	assert.Equal(t, "/tmp/n.json", ConfigPath([]string{"-a", "h:1", "-config", "/tmp/n.json"}))
	assert.Equal(t, "2.json", ConfigPath([]string{"-c", "1.json", "-config=2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
}
