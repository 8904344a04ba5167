// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/digest/internal/config"
	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/output"
	"github.com/temirov/digest/internal/prompt"
	"github.com/temirov/digest/internal/services/clipboard"
	"github.com/temirov/digest/internal/source"
	"github.com/temirov/digest/internal/tokenizer"
	"github.com/temirov/digest/internal/types"
	"github.com/temirov/digest/internal/utils"
)

const (
	exclusionFlagName      = "e"
	noGitignoreFlagName    = "no-gitignore"
	noIgnoreFlagName       = "no-ignore"
	includeGitFlagName     = "git"
	formatFlagName         = "format"
	summaryFlagName        = "summary"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	budgetFlagName         = "budget"
	ceilingFlagName        = "ceiling"
	treeMaxEntriesFlagName = "tree-max-entries"
	promptFlagName         = "prompt"
	copyFlagName           = "copy"
	configFlagName         = "config"
	globalFlagName         = "global"
	forceFlagName          = "force"
	versionFlagName        = "version"
	versionTemplate        = "digest version: %s\n"
	defaultPath            = "."
	rootUse                = "digest"
	rootShortDescription   = "digest command line interface"
	rootLongDescription    = `digest condenses a repository into a bounded text digest for a language model.
It classifies files by importance, renders a filtered directory tree, and admits file
contents by tier until the character budget is spent.
Use --format to select raw, json, xml, or yaml output, and --version to print the application version.`
	versionFlagDescription   = "display application version"
	runUse                   = "run [paths...]"
	treeUse                  = "tree [paths...]"
	classifyUse              = "classify [paths...]"
	initUse                  = "init"
	runAlias                 = "r"
	treeAlias                = "t"
	classifyAlias            = "c"
	runShortDescription      = "build the repository digest (" + runAlias + ")"
	treeShortDescription     = "display the filtered directory tree (" + treeAlias + ")"
	classifyShortDescription = "show the tier or exclusion rule of every file (" + classifyAlias + ")"
	initShortDescription     = "write the default configuration file"

	// runLongDescription provides detailed help for the run command.
	runLongDescription = `Build the digest for one or more paths.
Documentation and manifests are always included; entry points, infrastructure and
source files are admitted in that order while the budget lasts. Files longer than
the per-file ceiling are truncated.`
	// runUsageExample demonstrates run command usage.
	runUsageExample = `  # Digest the current repository with a smaller budget
  digest run --budget 30000 .

  # Wrap the digest in the summarization prompt and copy it
  digest run --prompt --copy ./service`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the filtered directory tree for one or more paths.
Excluded paths such as dependency directories, lock files and binaries are not shown.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree in YAML format
  digest tree --format yaml ./cmd

  # Exclude the vendor directory
  digest tree -e vendor .`

	// classifyLongDescription provides detailed help for the classify command.
	classifyLongDescription = `List every collected file with its tier or the rule that excluded it.`
	// classifyUsageExample demonstrates classify command usage.
	classifyUsageExample = `  # Inspect classification as JSON
  digest classify --format json .`

	exclusionFlagDescription        = "exclude path pattern (gitignore syntax)"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	formatFlagDescription           = "output format (raw, json, xml, yaml)"
	summaryFlagDescription          = "include summary of the result"
	tokensFlagDescription           = "include token counts"
	modelFlagDescription            = "tokenizer model to use for token counting"
	budgetFlagDescription           = "character budget for file contents"
	ceilingFlagDescription          = "per-file character ceiling before truncation"
	treeMaxEntriesFlagDescription   = "maximum number of paths drawn in the tree"
	promptFlagDescription           = "wrap the digest in the summarization prompt"
	copyFlagDescription             = "copy the output to the clipboard"
	configFlagDescription           = "path to a configuration file"
	globalFlagDescription           = "write the configuration into the global directory"
	forceFlagDescription            = "overwrite an existing configuration file"

	initWrittenFormat         = "Configuration written to %s\n"
	warningSkipPathFormat     = "Warning: skipping %s: %v\n"
	warningTokenCountFormat   = "Warning: failed to count tokens for %s: %v\n"
	invalidFormatMessage      = "Invalid format value '%s'"
	workingDirectoryErrorForm = "unable to determine working directory: %w"
	loadConfigErrorFormat     = "load configuration: %w"
	copyErrorFormat           = "copy output to clipboard: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"

	excludedLabel = "excluded"

	logMessageRootFailed    = "root processing failed"
	logMessageSectionTokens = "section tokens"
	logFieldRoot            = "root"
	logFieldPath            = "path"
	logFieldTokens          = "tokens"
)

// Execute runs the digest application with the provided logger.
func Execute(logger *zap.Logger) error {
	application := newApplication(logger, clipboard.NewService())
	rootCommand := application.createRootCommand()
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// application holds the collaborators shared by all commands.
type application struct {
	logger     *zap.Logger
	copier     clipboard.Copier
	configPath string
}

func newApplication(logger *zap.Logger, copier clipboard.Copier) *application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &application{logger: logger, copier: copier}
}

// createRootCommand builds the root Cobra command.
func (application *application) createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&application.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		application.createRunCommand(),
		application.createTreeCommand(),
		application.createClassifyCommand(),
		application.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

type tokenOptions struct {
	enabled bool
	model   string
}

// commandFlags holds the raw flag values of one command before they are
// merged with the configuration files.
type commandFlags struct {
	paths          pathOptions
	tokens         tokenOptions
	format         string
	budget         int
	ceiling        int
	treeMaxEntries int
	summary        bool
	prompt         bool
	copy           bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	registerToggleFlag(command.Flags(), &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

func addOutputFlags(command *cobra.Command, flags *commandFlags) {
	command.Flags().StringVar(&flags.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerToggleFlag(command.Flags(), &flags.copy, copyFlagName, false, copyFlagDescription)
}

func addTokenFlags(command *cobra.Command, flags *commandFlags) {
	registerToggleFlag(command.Flags(), &flags.summary, summaryFlagName, true, summaryFlagDescription)
	registerToggleFlag(command.Flags(), &flags.tokens.enabled, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&flags.tokens.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
}

// createRunCommand returns the run subcommand.
func (application *application) createRunCommand() *cobra.Command {
	flags := &commandFlags{}
	runCommand := &cobra.Command{
		Use:     runUse,
		Aliases: []string{runAlias},
		Short:   runShortDescription,
		Long:    runLongDescription,
		Example: runUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runTool(command, types.CommandRun, arguments, flags)
		},
	}
	addPathFlags(runCommand, &flags.paths)
	addOutputFlags(runCommand, flags)
	addTokenFlags(runCommand, flags)
	runCommand.Flags().IntVar(&flags.budget, budgetFlagName, digest.DefaultBudget, budgetFlagDescription)
	runCommand.Flags().IntVar(&flags.ceiling, ceilingFlagName, digest.DefaultCeiling, ceilingFlagDescription)
	runCommand.Flags().IntVar(&flags.treeMaxEntries, treeMaxEntriesFlagName, digest.DefaultTreeMaxEntries, treeMaxEntriesFlagDescription)
	registerToggleFlag(runCommand.Flags(), &flags.prompt, promptFlagName, false, promptFlagDescription)
	return runCommand
}

// createTreeCommand returns the tree subcommand.
func (application *application) createTreeCommand() *cobra.Command {
	flags := &commandFlags{}
	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runTool(command, types.CommandTree, arguments, flags)
		},
	}
	addPathFlags(treeCommand, &flags.paths)
	addOutputFlags(treeCommand, flags)
	addTokenFlags(treeCommand, flags)
	treeCommand.Flags().IntVar(&flags.treeMaxEntries, treeMaxEntriesFlagName, digest.DefaultTreeMaxEntries, treeMaxEntriesFlagDescription)
	return treeCommand
}

// createClassifyCommand returns the classify subcommand.
func (application *application) createClassifyCommand() *cobra.Command {
	flags := &commandFlags{}
	classifyCommand := &cobra.Command{
		Use:     classifyUse,
		Aliases: []string{classifyAlias},
		Short:   classifyShortDescription,
		Long:    classifyLongDescription,
		Example: classifyUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runTool(command, types.CommandClassify, arguments, flags)
		},
	}
	addPathFlags(classifyCommand, &flags.paths)
	addOutputFlags(classifyCommand, flags)
	return classifyCommand
}

// createInitCommand returns the init subcommand.
func (application *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, writtenPath)
			return printError
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// rootResult is the outcome of processing one root path.
type rootResult struct {
	files    []digest.SourceFile
	composed digest.Digest
	err      error
}

// runTool executes a run, tree or classify command across all requested roots.
// Roots are processed concurrently and rendered in argument order.
func (application *application) runTool(command *cobra.Command, commandName string, arguments []string, flags *commandFlags) error {
	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorForm, workingDirectoryError)
	}
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: application.configPath,
	})
	if loadError != nil {
		return fmt.Errorf(loadConfigErrorFormat, loadError)
	}
	resolved := resolveSettings(command, flags, applicationConfiguration)
	if !output.IsSupportedFormat(resolved.format) {
		return fmt.Errorf(invalidFormatMessage, resolved.format)
	}
	resolved.digestOptions.Logger = application.logger
	digester, digesterError := digest.NewDigester(resolved.digestOptions)
	if digesterError != nil {
		return digesterError
	}

	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if resolved.tokens.enabled && commandName != types.CommandClassify {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: resolved.tokens.model})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	var copyBuffer bytes.Buffer
	var destination io.Writer = command.OutOrStdout()
	if resolved.copy {
		destination = io.MultiWriter(destination, &copyBuffer)
	}
	renderer, rendererError := output.NewRenderer(resolved.format, destination, len(validatedPaths), resolved.summary)
	if rendererError != nil {
		return rendererError
	}

	results := application.processRoots(command.Context(), commandName, validatedPaths, digester, source.NewWalker(resolved.walkerOptions, application.logger))

	for index, validatedPath := range validatedPaths {
		result := results[index]
		if result.err != nil {
			if !errors.Is(result.err, context.Canceled) {
				fmt.Fprintf(command.ErrOrStderr(), warningSkipPathFormat, validatedPath.AbsolutePath, result.err)
			}
			continue
		}
		var renderError error
		switch commandName {
		case types.CommandRun:
			renderError = application.renderDigest(command, renderer, validatedPath, result.composed, resolved.prompt, tokenCounter, tokenModel)
		case types.CommandTree:
			renderError = application.renderTree(command, renderer, validatedPath, digester, result.files, tokenCounter, tokenModel)
		case types.CommandClassify:
			renderError = renderClassification(renderer, validatedPath, digester.Classifier(), result.files)
		}
		if renderError != nil {
			return renderError
		}
	}

	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}
	if resolved.copy && application.copier != nil {
		if copyError := application.copier.Copy(copyBuffer.String()); copyError != nil {
			return fmt.Errorf(copyErrorFormat, copyError)
		}
	}
	return nil
}

// processRoots walks and digests every root concurrently. A failing root does
// not cancel the others; its error is kept in its result slot.
func (application *application) processRoots(
	executionContext context.Context,
	commandName string,
	validatedPaths []types.ValidatedPath,
	digester *digest.Digester,
	walker *source.Walker,
) []rootResult {
	if executionContext == nil {
		executionContext = context.Background()
	}
	results := make([]rootResult, len(validatedPaths))
	var group errgroup.Group
	for index, validatedPath := range validatedPaths {
		group.Go(func() error {
			files, collectError := walker.Collect(executionContext, validatedPath.AbsolutePath)
			if collectError != nil {
				application.logger.Debug(logMessageRootFailed, zap.String(logFieldRoot, validatedPath.AbsolutePath), zap.Error(collectError))
				results[index] = rootResult{err: collectError}
				return nil
			}
			result := rootResult{files: files}
			if commandName == types.CommandRun {
				result.composed = digester.Run(files)
			}
			results[index] = result
			return nil
		})
	}
	_ = group.Wait()
	return results
}

func (application *application) renderDigest(
	command *cobra.Command,
	renderer output.Renderer,
	validatedPath types.ValidatedPath,
	composed digest.Digest,
	promptEnabled bool,
	tokenCounter tokenizer.Counter,
	tokenModel string,
) error {
	document := composed.Document()
	if promptEnabled {
		wrapped, promptError := prompt.Full(rootDisplayName(validatedPath), composed)
		if promptError != nil {
			return promptError
		}
		document = wrapped
	}
	summary := output.SummarizeDigest(composed)
	if tokenCounter != nil {
		totalTokens, countError := application.countDigestTokens(tokenCounter, composed, document, promptEnabled)
		if countError != nil {
			fmt.Fprintf(command.ErrOrStderr(), warningTokenCountFormat, validatedPath.AbsolutePath, countError)
		} else {
			summary.TotalTokens = totalTokens
			summary.Model = tokenModel
		}
	}
	return renderer.RenderDigest(types.DigestOutput{
		Root:      validatedPath.AbsolutePath,
		Budget:    composed.Budget,
		Remaining: composed.Remaining,
		Tree:      composed.Tree,
		Sections:  composed.Sections,
		Skipped:   composed.Skipped,
		Document:  document,
		Summary:   summary,
	})
}

func (application *application) countDigestTokens(counter tokenizer.Counter, composed digest.Digest, document string, promptEnabled bool) (int, error) {
	if promptEnabled {
		return tokenizer.CountText(counter, document)
	}
	counts, countError := tokenizer.CountDigest(counter, composed)
	if countError != nil {
		return 0, countError
	}
	for _, section := range composed.Sections {
		application.logger.Debug(logMessageSectionTokens, zap.String(logFieldPath, section.Path), zap.Int(logFieldTokens, counts.Sections[section.Path]))
	}
	return counts.Document, nil
}

func (application *application) renderTree(
	command *cobra.Command,
	renderer output.Renderer,
	validatedPath types.ValidatedPath,
	digester *digest.Digester,
	files []digest.SourceFile,
	tokenCounter tokenizer.Counter,
	tokenModel string,
) error {
	tree := digester.Tree(files)
	summary := output.SummarizeFiles(includedFiles(digester.Classifier(), files))
	if tokenCounter != nil {
		treeTokens, countError := tokenizer.CountText(tokenCounter, tree)
		if countError != nil {
			fmt.Fprintf(command.ErrOrStderr(), warningTokenCountFormat, validatedPath.AbsolutePath, countError)
		} else {
			summary.TotalTokens = treeTokens
			summary.Model = tokenModel
		}
	}
	return renderer.RenderTree(types.TreeOutput{Root: validatedPath.AbsolutePath, Tree: tree, Summary: summary})
}

func renderClassification(renderer output.Renderer, validatedPath types.ValidatedPath, classifier *digest.Classifier, files []digest.SourceFile) error {
	classified := make([]types.ClassifiedPath, 0, len(files))
	for _, file := range files {
		classification := classifier.Classify(file.Path)
		entry := types.ClassifiedPath{Path: file.Path, Excluded: classification.Excluded, Rule: classification.Rule}
		if classification.Excluded {
			entry.Label = excludedLabel
		} else {
			entry.Tier = int(classification.Tier)
			entry.Label = classification.Tier.String()
		}
		classified = append(classified, entry)
	}
	return renderer.RenderClassification(types.ClassificationOutput{Root: validatedPath.AbsolutePath, Paths: classified})
}

func includedFiles(classifier *digest.Classifier, files []digest.SourceFile) []digest.SourceFile {
	included := make([]digest.SourceFile, 0, len(files))
	for _, file := range files {
		if !classifier.Classify(file.Path).Excluded {
			included = append(included, file)
		}
	}
	return included
}

func rootDisplayName(validatedPath types.ValidatedPath) string {
	return filepath.Base(validatedPath.AbsolutePath)
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
