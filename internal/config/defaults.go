package config

// DefaultSharedPackages are installed on every node.
func DefaultSharedPackages() PackageSet {
	return PackageSet{Manager: ManagerPip, Names: []string{"numpy"}}
}

// DefaultLeaderPackages are the OS libraries the leader's init scripts build against.
func DefaultLeaderPackages() PackageSet {
	return PackageSet{Manager: ManagerApt, Names: []string{"libcurl4-openssl-dev", "libssl-dev"}}
}

// DefaultScripts are the secondary init scripts shipped in the helper repository.
func DefaultScripts() []ScriptConfig {
	return []ScriptConfig{
		{Name: "sparklyr", Path: "init_scripts/sparklyr-init.sh", LogFile: "sparklyr_init.log"},
		{Name: "r-packages", Path: "init_scripts/install-r-packages.sh", LogFile: "r_packages_init.log"},
	}
}

// Default returns a fully populated configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills every empty field. Set fields are left alone.
func applyDefaults(cfg *Config) {
	if cfg.Packages.Shared.Manager == "" && len(cfg.Packages.Shared.Names) == 0 {
		cfg.Packages.Shared = DefaultSharedPackages()
	}
	if cfg.Packages.Leader.Manager == "" && len(cfg.Packages.Leader.Names) == 0 {
		cfg.Packages.Leader = DefaultLeaderPackages()
	}
	if cfg.Packages.LockFile == "" {
		cfg.Packages.LockFile = DefaultLockFile
	}

	m := &cfg.Metadata
	if m.Source == "" {
		m.Source = MetadataSourceHTTP
	}
	if m.Endpoint == "" {
		m.Endpoint = DefaultMetadataURL
	}
	if m.Command == "" {
		m.Command = DefaultMetadataCmd
	}
	if m.Attribute == "" {
		m.Attribute = DefaultRoleAttribute
	}
	if m.LeaderRole == "" {
		m.LeaderRole = DefaultLeaderRole
	}

	l := &cfg.Leader
	if l.RepoURL == "" {
		l.RepoURL = DefaultRepoURL
	}
	if l.CloneDir == "" {
		l.CloneDir = DefaultCloneDir
	}
	if l.LinkDir == "" {
		l.LinkDir = DefaultLinkDir
	}
	if l.LinkName == "" {
		l.LinkName = DefaultLinkName
	}
	if l.LinkSubpath == "" {
		l.LinkSubpath = DefaultLinkSubpath
	}
	if len(l.Scripts) == 0 {
		l.Scripts = DefaultScripts()
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Shipping.Region == "" {
		cfg.Shipping.Region = DefaultShippingRegion
	}
}
