package config

// Package managers understood by the installer.
const (
	ManagerPip = "pip"
	ManagerApt = "apt"
)

// Metadata sources.
const (
	MetadataSourceHTTP    = "http"
	MetadataSourceCommand = "command"
)

// Defaults matching the Dataproc image layout.
const (
	DefaultConfigPath     = "/etc/nodeinit/nodeinit.yaml"
	DefaultLockFile       = "/var/lock/nodeinit-packages.lock"
	DefaultMetadataURL    = "http://metadata.google.internal"
	DefaultMetadataCmd    = "/usr/share/google/get_metadata_value"
	DefaultRoleAttribute  = "dataproc-role"
	DefaultLeaderRole     = "Master"
	DefaultRepoURL        = "https://github.com/macarthur-lab/gnomad_hail.git"
	DefaultCloneDir       = "/home/gnomad_hail"
	DefaultLinkDir        = "/home/hail"
	DefaultLinkName       = "gnomad_hail"
	DefaultLinkSubpath    = "."
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultShippingRegion = "us-east-1"
)
