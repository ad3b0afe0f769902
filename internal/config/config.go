package config

// Publish access levels carried by a normalized configuration.
const (
	AccessPublic     = "public"
	AccessRestricted = "restricted"
)

// ChangelogGenerator names the module that renders changelog entries along
// with its options payload. A nil Options payload means the generator runs
// with its own defaults.
type ChangelogGenerator struct {
	ModulePath string
	Options    any
}

// ChangelogConfig is the fully normalized changelog policy.
type ChangelogConfig struct {
	Generator      ChangelogGenerator
	Filename       string
	GlobalFilename string
}

// Config is the normalized, trusted configuration. A nil Changelog means
// changelog generation is disabled. Instances are immutable by convention;
// Default returns defensive copies so shared state never leaks.
type Config struct {
	Changelog  *ChangelogConfig
	Access     string
	Commit     bool
	Linked     [][]string
	BaseBranch string
}
