package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "package name looks like a flag",
			mutate:  func(c *Config) { c.Packages.Shared.Names = []string{"--upgrade"} },
			wantErr: "invalid package name",
		},
		{
			name:    "blank package name",
			mutate:  func(c *Config) { c.Packages.Leader.Names = []string{" "} },
			wantErr: "invalid package name",
		},
		{
			name:    "missing lock file",
			mutate:  func(c *Config) { c.Packages.LockFile = "" },
			wantErr: "lock_file is required",
		},
		{
			name:    "unknown metadata source",
			mutate:  func(c *Config) { c.Metadata.Source = "dns" },
			wantErr: "unsupported source",
		},
		{
			name:    "bad metadata endpoint",
			mutate:  func(c *Config) { c.Metadata.Endpoint = "metadata.google.internal" },
			wantErr: "invalid endpoint",
		},
		{
			name: "command source needs command",
			mutate: func(c *Config) {
				c.Metadata.Source = MetadataSourceCommand
				c.Metadata.Command = ""
			},
			wantErr: "command is required",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Metadata.Retries = -1 },
			wantErr: "retries must not be negative",
		},
		{
			name:    "link name with separator",
			mutate:  func(c *Config) { c.Leader.LinkName = "a/b" },
			wantErr: "single path element",
		},
		{
			name:    "link subpath escapes clone",
			mutate:  func(c *Config) { c.Leader.LinkSubpath = "../etc" },
			wantErr: "stay inside the clone",
		},
		{
			name: "shared log file",
			mutate: func(c *Config) {
				c.Leader.Scripts[1].LogFile = "./" + c.Leader.Scripts[0].LogFile
			},
			wantErr: "shared with another script",
		},
		{
			name:    "duplicate script name",
			mutate:  func(c *Config) { c.Leader.Scripts[1].Name = c.Leader.Scripts[0].Name },
			wantErr: "duplicate script name",
		},
		{
			name:    "script without log",
			mutate:  func(c *Config) { c.Leader.Scripts[0].LogFile = "" },
			wantErr: "log_file is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "unsupported level",
		},
		{
			name:    "bucket without endpoint",
			mutate:  func(c *Config) { c.Shipping.Bucket = "logs" },
			wantErr: "endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLeaderConfig_ScriptPath(t *testing.T) {
	t.Parallel()
	l := LeaderConfig{CloneDir: "/home/gnomad_hail"}

	assert.Equal(t, "/home/gnomad_hail/init_scripts/a.sh", l.ScriptPath(ScriptConfig{Path: "init_scripts/a.sh"}))
	assert.Equal(t, "/usr/local/bin/b.sh", l.ScriptPath(ScriptConfig{Path: "/usr/local/bin/b.sh"}))
}

func TestShippingConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, ShippingConfig{}.Enabled())
	assert.False(t, ShippingConfig{Bucket: "b"}.Enabled())
	assert.True(t, ShippingConfig{Bucket: "b", Endpoint: "https://s3.example.com"}.Enabled())
}
