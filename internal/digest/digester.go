package digest

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	// DefaultBudget is the character budget for admitted file content.
	DefaultBudget = 70000
	// DefaultCeiling is the per-file character count kept before truncation.
	DefaultCeiling = 6000
	// DefaultTreeMaxEntries caps the number of paths drawn in the tree.
	DefaultTreeMaxEntries = 500

	errorNegativeBudgetFormat   = "%w: budget must not be negative, got %d"
	errorCeilingFormat          = "%w: per-file ceiling must be positive, got %d"
	errorTreeMaxEntriesFormat   = "%w: tree entry limit must not be negative, got %d"
	errorClassifierFormat       = "%w: %v"
	logMessageExcluded          = "excluded path"
	logMessageUnreadable        = "skipping unreadable file"
	logMessageDigestComposed    = "digest composed"
	logFieldPath                = "path"
	logFieldRule                = "rule"
	logFieldReason              = "reason"
	logFieldAdmitted            = "admitted"
	logFieldSkipped             = "skipped"
	logFieldRemaining           = "remaining"
	logFieldExcludedCount       = "excluded"
	logFieldTreeCharacterLength = "tree_characters"
)

// Options configures a Digester.
type Options struct {
	Budget         int
	Ceiling        int
	TreeMaxEntries int
	Policy         Policy
	Logger         *zap.Logger
}

// DefaultOptions returns options populated with the default budget, ceiling and policy.
func DefaultOptions() Options {
	return Options{
		Budget:         DefaultBudget,
		Ceiling:        DefaultCeiling,
		TreeMaxEntries: DefaultTreeMaxEntries,
		Policy:         DefaultPolicy(),
	}
}

// Validate reports configuration values the pipeline cannot run with.
func (options Options) Validate() error {
	if options.Budget < 0 {
		return fmt.Errorf(errorNegativeBudgetFormat, ErrInvalidConfiguration, options.Budget)
	}
	if options.Ceiling <= 0 {
		return fmt.Errorf(errorCeilingFormat, ErrInvalidConfiguration, options.Ceiling)
	}
	if options.TreeMaxEntries < 0 {
		return fmt.Errorf(errorTreeMaxEntriesFormat, ErrInvalidConfiguration, options.TreeMaxEntries)
	}
	return nil
}

// Digester runs the digest pipeline. It keeps no state between runs.
type Digester struct {
	options    Options
	classifier *Classifier
	logger     *zap.Logger
}

// NewDigester validates options and compiles the classification policy.
func NewDigester(options Options) (*Digester, error) {
	if validationError := options.Validate(); validationError != nil {
		return nil, validationError
	}
	classifier, classifierError := NewClassifier(options.Policy)
	if classifierError != nil {
		return nil, fmt.Errorf(errorClassifierFormat, ErrInvalidConfiguration, classifierError)
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Digester{options: options, classifier: classifier, logger: logger}, nil
}

// Classifier exposes the compiled classifier.
func (digester *Digester) Classifier() *Classifier {
	return digester.classifier
}

// Tree renders the directory tree over the non-excluded files.
func (digester *Digester) Tree(files []SourceFile) string {
	entries, _ := digester.classify(files)
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return RenderTree(paths, digester.options.TreeMaxEntries)
}

// Run classifies, renders, aggregates, allocates and composes files into a
// Digest. It cannot fail: unreadable files are recorded as skipped.
func (digester *Digester) Run(files []SourceFile) Digest {
	entries, excludedCount := digester.classify(files)

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	tree := RenderTree(paths, digester.options.TreeMaxEntries)

	allocation := Allocate(Aggregate(entries), digester.options.Budget, digester.options.Ceiling)
	for _, skipped := range allocation.Skipped {
		if skipped.Reason == SkipReasonUnreadable {
			digester.logger.Warn(logMessageUnreadable, zap.String(logFieldPath, skipped.Path), zap.String(logFieldReason, skipped.Detail))
		}
	}

	composed := Compose(tree, allocation.Admitted, allocation.Skipped, digester.options.Budget, allocation.Remaining)
	digester.logger.Debug(logMessageDigestComposed,
		zap.Int(logFieldAdmitted, len(composed.Sections)),
		zap.Int(logFieldSkipped, len(composed.Skipped)),
		zap.Int(logFieldExcludedCount, excludedCount),
		zap.Int(logFieldRemaining, composed.Remaining),
		zap.Int(logFieldTreeCharacterLength, CharacterCount(tree)),
	)
	return composed
}

func (digester *Digester) classify(files []SourceFile) ([]FileEntry, int) {
	entries := make([]FileEntry, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	excludedCount := 0
	for _, file := range files {
		classification := digester.classifier.Classify(file.Path)
		if classification.Excluded {
			excludedCount++
			digester.logger.Debug(logMessageExcluded, zap.String(logFieldPath, file.Path), zap.String(logFieldRule, classification.Rule))
			continue
		}
		entry := NewFileEntry(file, classification.Tier)
		if _, duplicate := seen[entry.Path]; duplicate {
			continue
		}
		seen[entry.Path] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, excludedCount
}
