// Package config loads application configuration files and ignore files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/tokenizer"
	"github.com/temirov/digest/internal/types"
	"github.com/temirov/digest/internal/utils"
)

const (
	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorResolvePathFormat      = "resolve configuration path %s: %w"
	errorStatConfigFormat       = "stat configuration %s: %w"
	errorConfigDirectoryFormat  = "configuration path %s is a directory"
	errorReadConfigFormat       = "read configuration from %s: %w"
	errorDecodeConfigFormat     = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the digest defaults and classification overrides.
type ApplicationConfiguration struct {
	Digest DigestConfiguration `mapstructure:"digest" yaml:"digest"`
	Policy PolicyConfiguration `mapstructure:"policy" yaml:"policy"`
}

// DigestConfiguration defines the defaults shared by the run, tree and classify commands.
type DigestConfiguration struct {
	Format         string             `mapstructure:"format" yaml:"format"`
	Budget         *int               `mapstructure:"budget" yaml:"budget"`
	Ceiling        *int               `mapstructure:"ceiling" yaml:"ceiling"`
	TreeMaxEntries *int               `mapstructure:"tree_max_entries" yaml:"tree_max_entries"`
	Summary        *bool              `mapstructure:"summary" yaml:"summary"`
	Prompt         *bool              `mapstructure:"prompt" yaml:"prompt"`
	Copy           *bool              `mapstructure:"copy" yaml:"copy"`
	Tokens         TokenConfiguration `mapstructure:"tokens" yaml:"tokens"`
	Paths          PathConfiguration  `mapstructure:"paths" yaml:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// PathConfiguration configures exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore" yaml:"use_ignore"`
	IncludeGit    *bool    `mapstructure:"include_git" yaml:"include_git"`
}

// PolicyConfiguration lists entries appended to the built-in classification tables.
type PolicyConfiguration struct {
	ExcludeDirectories        []string `mapstructure:"exclude_directories" yaml:"exclude_directories"`
	ExcludeExtensions         []string `mapstructure:"exclude_extensions" yaml:"exclude_extensions"`
	ExcludeFilenames          []string `mapstructure:"exclude_filenames" yaml:"exclude_filenames"`
	ExcludePatterns           []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	DocumentationStems        []string `mapstructure:"documentation_stems" yaml:"documentation_stems"`
	ManifestNames             []string `mapstructure:"manifest_names" yaml:"manifest_names"`
	EntryPointStems           []string `mapstructure:"entry_point_stems" yaml:"entry_point_stems"`
	EntryPointExtensions      []string `mapstructure:"entry_point_extensions" yaml:"entry_point_extensions"`
	EntryPointNames           []string `mapstructure:"entry_point_names" yaml:"entry_point_names"`
	InfrastructureDirectories []string `mapstructure:"infrastructure_directories" yaml:"infrastructure_directories"`
	InfrastructureNames       []string `mapstructure:"infrastructure_names" yaml:"infrastructure_names"`
}

// DefaultApplicationConfiguration returns the built-in settings with every
// scalar populated. It is the content written by InitializeConfiguration.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Digest: DigestConfiguration{
			Format:         types.FormatRaw,
			Budget:         intPointer(digest.DefaultBudget),
			Ceiling:        intPointer(digest.DefaultCeiling),
			TreeMaxEntries: intPointer(digest.DefaultTreeMaxEntries),
			Summary:        boolPointer(true),
			Prompt:         boolPointer(false),
			Copy:           boolPointer(false),
			Tokens:         TokenConfiguration{Enabled: boolPointer(false), Model: tokenizer.DefaultModel},
			Paths: PathConfiguration{
				Exclude:       []string{},
				UseGitignore:  boolPointer(true),
				UseIgnoreFile: boolPointer(true),
				IncludeGit:    boolPointer(false),
			},
		},
	}
}

// LoadApplicationConfiguration loads configuration from the global file and then
// the local or explicitly named file, later values overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Digest.Paths.Exclude = utils.DeduplicatePatterns(merged.Digest.Paths.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Policy lists accumulate across files; scalar settings are replaced.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Digest = result.Digest.merge(override.Digest)
	result.Policy = result.Policy.merge(override.Policy)
	return result
}

// ToPolicy extends the built-in classification tables with the configured entries.
func (config PolicyConfiguration) ToPolicy() digest.Policy {
	return digest.DefaultPolicy().Extend(digest.Policy{
		ExcludedDirectories:       config.ExcludeDirectories,
		ExcludedExtensions:        config.ExcludeExtensions,
		ExcludedFilenames:         config.ExcludeFilenames,
		ExcludedPatterns:          config.ExcludePatterns,
		DocumentationStems:        config.DocumentationStems,
		ManifestNames:             config.ManifestNames,
		EntryPointStems:           config.EntryPointStems,
		EntryPointExtensions:      config.EntryPointExtensions,
		EntryPointNames:           config.EntryPointNames,
		InfrastructureDirectories: config.InfrastructureDirectories,
		InfrastructureNames:       config.InfrastructureNames,
	})
}

func (config DigestConfiguration) merge(override DigestConfiguration) DigestConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Budget != nil {
		result.Budget = cloneInt(override.Budget)
	}
	if override.Ceiling != nil {
		result.Ceiling = cloneInt(override.Ceiling)
	}
	if override.TreeMaxEntries != nil {
		result.TreeMaxEntries = cloneInt(override.TreeMaxEntries)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Prompt != nil {
		result.Prompt = cloneBool(override.Prompt)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

func (config PolicyConfiguration) merge(override PolicyConfiguration) PolicyConfiguration {
	return PolicyConfiguration{
		ExcludeDirectories:        appendUnique(config.ExcludeDirectories, override.ExcludeDirectories),
		ExcludeExtensions:         appendUnique(config.ExcludeExtensions, override.ExcludeExtensions),
		ExcludeFilenames:          appendUnique(config.ExcludeFilenames, override.ExcludeFilenames),
		ExcludePatterns:           appendUnique(config.ExcludePatterns, override.ExcludePatterns),
		DocumentationStems:        appendUnique(config.DocumentationStems, override.DocumentationStems),
		ManifestNames:             appendUnique(config.ManifestNames, override.ManifestNames),
		EntryPointStems:           appendUnique(config.EntryPointStems, override.EntryPointStems),
		EntryPointExtensions:      appendUnique(config.EntryPointExtensions, override.EntryPointExtensions),
		EntryPointNames:           appendUnique(config.EntryPointNames, override.EntryPointNames),
		InfrastructureDirectories: appendUnique(config.InfrastructureDirectories, override.InfrastructureDirectories),
		InfrastructureNames:       appendUnique(config.InfrastructureNames, override.InfrastructureNames),
	}
}

func appendUnique(base []string, additions []string) []string {
	if len(base) == 0 && len(additions) == 0 {
		return nil
	}
	combined := make([]string, 0, len(base)+len(additions))
	combined = append(combined, base...)
	combined = append(combined, additions...)
	return utils.DeduplicatePatterns(combined)
}

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
