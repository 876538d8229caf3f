package config

import "time"

// Config is the complete node initialization configuration.
type Config struct {
	Packages PackagesConfig `mapstructure:"packages" yaml:"packages"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Leader   LeaderConfig   `mapstructure:"leader" yaml:"leader"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Shipping ShippingConfig `mapstructure:"shipping" yaml:"shipping"`
}

// PackagesConfig describes the two package installation steps.
type PackagesConfig struct {
	// Shared is installed on every node.
	Shared PackageSet `mapstructure:"shared" yaml:"shared"`

	// Leader is installed on the leader only, after the repository setup.
	Leader PackageSet `mapstructure:"leader" yaml:"leader"`

	// LockFile is the host-wide lock every installer invocation holds.
	LockFile string `mapstructure:"lock_file" yaml:"lock_file"`
}

// PackageSet is one installer invocation.
type PackageSet struct {
	Manager   string   `mapstructure:"manager" yaml:"manager"` // pip, apt
	Names     []string `mapstructure:"names" yaml:"names"`
	ExtraArgs []string `mapstructure:"extra_args" yaml:"extra_args,omitempty"`
	Binary    string   `mapstructure:"binary" yaml:"binary,omitempty"` // overrides the manager's default executable
}

// MetadataConfig describes where the node role is read from.
type MetadataConfig struct {
	Source     string        `mapstructure:"source" yaml:"source"` // http, command
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Command    string        `mapstructure:"command" yaml:"command"`
	Attribute  string        `mapstructure:"attribute" yaml:"attribute"`
	LeaderRole string        `mapstructure:"leader_role" yaml:"leader_role"`
	Retries    int           `mapstructure:"retries" yaml:"retries"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LeaderConfig describes the leader-only setup.
type LeaderConfig struct {
	RepoURL     string         `mapstructure:"repo_url" yaml:"repo_url"`
	CloneDir    string         `mapstructure:"clone_dir" yaml:"clone_dir"`
	LinkDir     string         `mapstructure:"link_dir" yaml:"link_dir"`
	LinkName    string         `mapstructure:"link_name" yaml:"link_name"`
	LinkSubpath string         `mapstructure:"link_subpath" yaml:"link_subpath"`
	Scripts     []ScriptConfig `mapstructure:"scripts" yaml:"scripts"`
}

// ScriptConfig is a secondary init script launched in the background.
type ScriptConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	// Path is relative to the clone directory unless absolute.
	Path string `mapstructure:"path" yaml:"path"`

	// LogFile receives stdout and stderr. Relative paths resolve against
	// the working directory at launch.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, error
	Format string `mapstructure:"format" yaml:"format"` // console, json
}

// MetricsConfig configures the node_exporter textfile output.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path" yaml:"textfile_path,omitempty"`
}

// ShippingConfig configures uploading of the background task logs.
// Credentials come from NODEINIT_S3_ACCESS_KEY and NODEINIT_S3_SECRET_KEY.
type ShippingConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	PathStyle bool   `mapstructure:"path_style" yaml:"path_style,omitempty"`
	Retries   int    `mapstructure:"retries" yaml:"retries,omitempty"`

	AccessKey string `mapstructure:"-" yaml:"-"`
	SecretKey string `mapstructure:"-" yaml:"-"`
}

// Enabled reports whether log shipping has a destination.
func (s ShippingConfig) Enabled() bool {
	return s.Bucket != "" && s.Endpoint != ""
}
