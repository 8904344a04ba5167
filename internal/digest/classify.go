package digest

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	eggInfoSuffix = ".egg-info"

	ruleExcludedDirectory   = "excluded-directory"
	ruleExcludedFilename    = "excluded-filename"
	ruleExcludedExtension   = "excluded-extension"
	ruleExcludedPattern     = "excluded-pattern"
	ruleDocumentation       = "documentation"
	ruleManifest            = "manifest"
	ruleEntryPoint          = "entry-point"
	ruleInfrastructure      = "infrastructure"
	ruleDefaultSource       = "source"
	errorCompilePatternForm = "compile exclusion pattern %q: %w"
)

// Classification is the outcome of classifying one path.
type Classification struct {
	Excluded bool
	Tier     Tier
	// Rule names the table that decided the outcome.
	Rule string
}

type pathParts struct {
	full        string
	lowerFull   string
	name        string
	lowerName   string
	extension   string
	stem        string
	directories []string
}

func splitPath(filePath string) pathParts {
	normalized := NormalizePath(filePath)
	segments := strings.Split(normalized, "/")
	name := segments[len(segments)-1]
	extension := strings.ToLower(path.Ext(name))
	return pathParts{
		full:        normalized,
		lowerFull:   strings.ToLower(normalized),
		name:        name,
		lowerName:   strings.ToLower(name),
		extension:   extension,
		stem:        name[:len(name)-len(extension)],
		directories: segments[:len(segments)-1],
	}
}

// NormalizePath converts a repository path to forward-slash form without a leading "./".
func NormalizePath(filePath string) string {
	normalized := strings.ReplaceAll(filePath, "\\", "/")
	normalized = path.Clean(normalized)
	normalized = strings.TrimPrefix(normalized, "./")
	return strings.TrimPrefix(normalized, "/")
}

type classificationRule struct {
	name    string
	matches func(parts pathParts) bool
	outcome Classification
}

// Classifier assigns every path to exactly one of exclusion or a tier.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []classificationRule
}

// NewClassifier compiles the policy tables into an ordered rule list.
func NewClassifier(policy Policy) (*Classifier, error) {
	compiledPatterns := make([]*regexp.Regexp, 0, len(policy.ExcludedPatterns))
	for _, patternText := range policy.ExcludedPatterns {
		compiledPattern, compileError := regexp.Compile(patternText)
		if compileError != nil {
			return nil, fmt.Errorf(errorCompilePatternForm, patternText, compileError)
		}
		compiledPatterns = append(compiledPatterns, compiledPattern)
	}

	excludedDirectories := lowerSet(policy.ExcludedDirectories)
	excludedFilenames := exactSet(policy.ExcludedFilenames)
	excludedExtensions := lowerSet(policy.ExcludedExtensions)
	documentationStems := lowerSet(policy.DocumentationStems)
	entryPointStems := lowerSet(policy.EntryPointStems)
	entryPointExtensions := lowerSet(policy.EntryPointExtensions)
	entryPointNames := exactSet(policy.EntryPointNames)
	manifestNames := append([]string(nil), policy.ManifestNames...)
	infrastructureNames := lowerList(policy.InfrastructureNames)
	infrastructureDirectories := lowerList(policy.InfrastructureDirectories)

	excluded := Classification{Excluded: true}
	rules := []classificationRule{
		{
			name: ruleExcludedDirectory,
			matches: func(parts pathParts) bool {
				for _, directory := range parts.directories {
					lowerDirectory := strings.ToLower(directory)
					if _, found := excludedDirectories[lowerDirectory]; found {
						return true
					}
					if strings.HasSuffix(lowerDirectory, eggInfoSuffix) {
						return true
					}
				}
				return false
			},
			outcome: excluded,
		},
		{
			name: ruleExcludedFilename,
			matches: func(parts pathParts) bool {
				_, found := excludedFilenames[parts.name]
				return found
			},
			outcome: excluded,
		},
		{
			name: ruleExcludedExtension,
			matches: func(parts pathParts) bool {
				if parts.extension == "" {
					return false
				}
				_, found := excludedExtensions[parts.extension]
				return found
			},
			outcome: excluded,
		},
		{
			name: ruleExcludedPattern,
			matches: func(parts pathParts) bool {
				for _, compiledPattern := range compiledPatterns {
					if compiledPattern.MatchString(parts.full) {
						return true
					}
				}
				return false
			},
			outcome: excluded,
		},
		{
			name: ruleDocumentation,
			matches: func(parts pathParts) bool {
				stem := parts.lowerName
				if dotIndex := strings.Index(stem, "."); dotIndex >= 0 {
					stem = stem[:dotIndex]
				}
				_, found := documentationStems[stem]
				return found
			},
			outcome: Classification{Tier: TierDocumentation},
		},
		{
			name: ruleManifest,
			matches: func(parts pathParts) bool {
				return matchesAnyGlob(manifestNames, parts.name)
			},
			outcome: Classification{Tier: TierManifest},
		},
		{
			name: ruleEntryPoint,
			matches: func(parts pathParts) bool {
				if _, found := entryPointNames[parts.name]; found {
					return true
				}
				if _, found := entryPointExtensions[parts.extension]; !found {
					return false
				}
				_, found := entryPointStems[strings.ToLower(parts.stem)]
				return found
			},
			outcome: Classification{Tier: TierEntryPoint},
		},
		{
			name: ruleInfrastructure,
			matches: func(parts pathParts) bool {
				for _, directory := range infrastructureDirectories {
					if strings.HasPrefix(parts.lowerFull, directory+"/") || strings.Contains(parts.lowerFull, "/"+directory+"/") {
						return true
					}
				}
				return matchesAnyGlob(infrastructureNames, parts.lowerName)
			},
			outcome: Classification{Tier: TierInfrastructure},
		},
	}

	for index := range rules {
		rules[index].outcome.Rule = rules[index].name
	}
	return &Classifier{rules: rules}, nil
}

// Classify resolves the path to exclusion or a tier. It never fails.
func (classifier *Classifier) Classify(filePath string) Classification {
	parts := splitPath(filePath)
	for _, rule := range classifier.rules {
		if rule.matches(parts) {
			return rule.outcome
		}
	}
	return Classification{Tier: TierSource, Rule: ruleDefaultSource}
}

func matchesAnyGlob(patterns []string, name string) bool {
	for _, pattern := range patterns {
		isMatched, matchError := path.Match(pattern, name)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]struct{} {
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		result[strings.ToLower(value)] = struct{}{}
	}
	return result
}

func exactSet(values []string) map[string]struct{} {
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		result[value] = struct{}{}
	}
	return result
}

func lowerList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, strings.ToLower(strings.TrimSuffix(value, "/")))
	}
	return result
}
