package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/digest/internal/config"
	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/source"
	"github.com/temirov/digest/internal/utils"
)

// resolvedSettings is the effective configuration of one command invocation.
type resolvedSettings struct {
	format        string
	summary       bool
	prompt        bool
	copy          bool
	tokens        tokenOptions
	digestOptions digest.Options
	walkerOptions source.Options
}

// resolveSettings layers built-in defaults, configuration files and explicitly
// set command-line flags, in that order. A flag overrides configuration only
// when it was given on the command line.
func resolveSettings(command *cobra.Command, flags *commandFlags, applicationConfiguration config.ApplicationConfiguration) resolvedSettings {
	effective := config.DefaultApplicationConfiguration().Merge(applicationConfiguration)
	digestConfiguration := effective.Digest
	flagSet := command.Flags()

	resolved := resolvedSettings{
		format:  digestConfiguration.Format,
		summary: *digestConfiguration.Summary,
		prompt:  *digestConfiguration.Prompt,
		copy:    *digestConfiguration.Copy,
		tokens: tokenOptions{
			enabled: *digestConfiguration.Tokens.Enabled,
			model:   digestConfiguration.Tokens.Model,
		},
		digestOptions: digest.Options{
			Budget:         *digestConfiguration.Budget,
			Ceiling:        *digestConfiguration.Ceiling,
			TreeMaxEntries: *digestConfiguration.TreeMaxEntries,
			Policy:         effective.Policy.ToPolicy(),
		},
		walkerOptions: source.Options{
			ExclusionPatterns: append([]string(nil), digestConfiguration.Paths.Exclude...),
			UseGitignore:      *digestConfiguration.Paths.UseGitignore,
			UseIgnoreFile:     *digestConfiguration.Paths.UseIgnoreFile,
			IncludeGit:        *digestConfiguration.Paths.IncludeGit,
		},
	}

	if flagSet.Changed(formatFlagName) {
		resolved.format = flags.format
	}
	if flagSet.Changed(summaryFlagName) {
		resolved.summary = flags.summary
	}
	if flagSet.Changed(promptFlagName) {
		resolved.prompt = flags.prompt
	}
	if flagSet.Changed(copyFlagName) {
		resolved.copy = flags.copy
	}
	if flagSet.Changed(tokensFlagName) {
		resolved.tokens.enabled = flags.tokens.enabled
	}
	if flagSet.Changed(modelFlagName) {
		resolved.tokens.model = flags.tokens.model
	}
	if flagSet.Changed(budgetFlagName) {
		resolved.digestOptions.Budget = flags.budget
	}
	if flagSet.Changed(ceilingFlagName) {
		resolved.digestOptions.Ceiling = flags.ceiling
	}
	if flagSet.Changed(treeMaxEntriesFlagName) {
		resolved.digestOptions.TreeMaxEntries = flags.treeMaxEntries
	}
	if flagSet.Changed(noGitignoreFlagName) {
		resolved.walkerOptions.UseGitignore = !flags.paths.disableGitignore
	}
	if flagSet.Changed(noIgnoreFlagName) {
		resolved.walkerOptions.UseIgnoreFile = !flags.paths.disableIgnoreFile
	}
	if flagSet.Changed(includeGitFlagName) {
		resolved.walkerOptions.IncludeGit = flags.paths.includeGit
	}
	if resolved.walkerOptions.IncludeGit {
		resolved.digestOptions.Policy = resolved.digestOptions.Policy.WithoutExcludedDirectories(utils.GitDirectoryName)
	}
	resolved.walkerOptions.ExclusionPatterns = utils.DeduplicatePatterns(append(resolved.walkerOptions.ExclusionPatterns, flags.paths.exclusionPatterns...))

	resolved.format = strings.ToLower(strings.TrimSpace(resolved.format))
	return resolved
}
