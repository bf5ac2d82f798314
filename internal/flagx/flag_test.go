package flagx

import (
	"os"
	"reflect"
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
			args:         []string{"-c", "conf.yaml", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.yaml"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash-starting token is not a value",
			args:         []string{"-c", "-d", "dsn"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-a", ":3000", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", ":3000", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStringFlag(t *testing.T) {
	assert.Equal(t, "def", StringFlag([]string{"-x", "1"}, "def", "env"))
	assert.Equal(t, "prod.env", StringFlag([]string{"-env", "prod.env"}, "def", "env"))
	assert.Equal(t, "b.json", StringFlag([]string{"-c", "a.json", "--config=b.json"}, "", "c", "config"))
}

func TestConfigAndEnvFileFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-config", "/path/conf.yaml", "-a", ":8080"}
	assert.Equal(t, "/path/conf.yaml", ConfigFileFlag())
	assert.Equal(t, ".env", EnvFileFlag())

	os.Args = []string{"testbin", "-env", "/etc/todo.env"}
	assert.Empty(t, ConfigFileFlag())
	assert.Equal(t, "/etc/todo.env", EnvFileFlag())
}
