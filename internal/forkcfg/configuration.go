package forkcfg

import (
	"path/filepath"
	"strings"
)

const (
	repositoryConfigurationKeyConstant     = "repo"
	buildConfigurationKeyConstant          = "build"
	repositoryPathKeyConstant              = "path"
	localRemoteKeyConstant                 = "local_remote"
	localBranchKeyConstant                 = "local_branch"
	upstreamRemoteKeyConstant              = "upstream_remote"
	upstreamBranchKeyConstant              = "upstream_branch"
	buildProfileKeyConstant                = "profile"
	buildWorkspaceKeyConstant              = "workspace"
	buildBinaryRelativePathKeyConstant     = "binary_relpath"
	defaultRepositoryPathConstant          = "vendor/fork"
	defaultLocalRemoteConstant             = "origin"
	defaultLocalBranchConstant             = "main"
	defaultUpstreamRemoteConstant          = "upstream"
	defaultUpstreamBranchConstant          = "main"
	defaultBuildProfileConstant            = "release"
	defaultBuildWorkspaceConstant          = "."
	defaultBuildBinaryRelativePathConstant = "target/release/fork"
)

// RepositoryConfiguration describes the vendored fork and the remotes it tracks.
type RepositoryConfiguration struct {
	Path           string `mapstructure:"path"`
	LocalRemote    string `mapstructure:"local_remote"`
	LocalBranch    string `mapstructure:"local_branch"`
	UpstreamRemote string `mapstructure:"upstream_remote"`
	UpstreamBranch string `mapstructure:"upstream_branch"`
}

// BuildConfiguration describes how the fork's binary artifact is produced.
type BuildConfiguration struct {
	Profile            string `mapstructure:"profile"`
	Workspace          string `mapstructure:"workspace"`
	BinaryRelativePath string `mapstructure:"binary_relpath"`
}

// Configuration aggregates the repository and build sections.
type Configuration struct {
	Repository RepositoryConfiguration `mapstructure:"repo"`
	Build      BuildConfiguration      `mapstructure:"build"`
}

// DefaultConfiguration returns baseline configuration values.
func DefaultConfiguration() Configuration {
	return Configuration{
		Repository: RepositoryConfiguration{
			Path:           defaultRepositoryPathConstant,
			LocalRemote:    defaultLocalRemoteConstant,
			LocalBranch:    defaultLocalBranchConstant,
			UpstreamRemote: defaultUpstreamRemoteConstant,
			UpstreamBranch: defaultUpstreamBranchConstant,
		},
		Build: BuildConfiguration{
			Profile:            defaultBuildProfileConstant,
			Workspace:          defaultBuildWorkspaceConstant,
			BinaryRelativePath: defaultBuildBinaryRelativePathConstant,
		},
	}
}

// DefaultConfigurationValues produces Viper defaults for the stewardship commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + "." + repositoryConfigurationKeyConstant + "." + repositoryPathKeyConstant:     defaults.Repository.Path,
		rootKey + "." + repositoryConfigurationKeyConstant + "." + localRemoteKeyConstant:        defaults.Repository.LocalRemote,
		rootKey + "." + repositoryConfigurationKeyConstant + "." + localBranchKeyConstant:        defaults.Repository.LocalBranch,
		rootKey + "." + repositoryConfigurationKeyConstant + "." + upstreamRemoteKeyConstant:     defaults.Repository.UpstreamRemote,
		rootKey + "." + repositoryConfigurationKeyConstant + "." + upstreamBranchKeyConstant:     defaults.Repository.UpstreamBranch,
		rootKey + "." + buildConfigurationKeyConstant + "." + buildProfileKeyConstant:            defaults.Build.Profile,
		rootKey + "." + buildConfigurationKeyConstant + "." + buildWorkspaceKeyConstant:          defaults.Build.Workspace,
		rootKey + "." + buildConfigurationKeyConstant + "." + buildBinaryRelativePathKeyConstant: defaults.Build.BinaryRelativePath,
	}
}

// Sanitize normalizes configuration values, substituting defaults for blanks.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Repository = configuration.Repository.sanitize()
	sanitized.Build = configuration.Build.sanitize()
	return sanitized
}

func (configuration RepositoryConfiguration) sanitize() RepositoryConfiguration {
	sanitized := configuration
	sanitized.Path = fallbackWhenBlank(configuration.Path, defaultRepositoryPathConstant)
	sanitized.LocalRemote = fallbackWhenBlank(configuration.LocalRemote, defaultLocalRemoteConstant)
	sanitized.LocalBranch = fallbackWhenBlank(configuration.LocalBranch, defaultLocalBranchConstant)
	sanitized.UpstreamRemote = fallbackWhenBlank(configuration.UpstreamRemote, defaultUpstreamRemoteConstant)
	sanitized.UpstreamBranch = fallbackWhenBlank(configuration.UpstreamBranch, defaultUpstreamBranchConstant)
	return sanitized
}

func (configuration BuildConfiguration) sanitize() BuildConfiguration {
	sanitized := configuration
	sanitized.Profile = fallbackWhenBlank(configuration.Profile, defaultBuildProfileConstant)
	sanitized.Workspace = fallbackWhenBlank(configuration.Workspace, defaultBuildWorkspaceConstant)
	sanitized.BinaryRelativePath = fallbackWhenBlank(configuration.BinaryRelativePath, defaultBuildBinaryRelativePathConstant)
	return sanitized
}

func fallbackWhenBlank(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

// WorkspacePath resolves the directory cargo commands run in.
func (configuration Configuration) WorkspacePath() string {
	return filepath.Join(configuration.Repository.Path, configuration.Build.Workspace)
}

// BinaryPath resolves the expected location of the built artifact.
func (configuration Configuration) BinaryPath() string {
	return filepath.Join(configuration.Repository.Path, configuration.Build.BinaryRelativePath)
}
