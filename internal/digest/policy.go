package digest

import "github.com/temirov/digest/internal/utils"

// Policy holds the static pattern tables that drive classification.
// Table entries are data; the rule order lives in NewClassifier.
type Policy struct {
	// ExcludedDirectories are directory names that exclude every path beneath them.
	ExcludedDirectories []string
	// ExcludedExtensions are lower-case file extensions including the leading dot.
	ExcludedExtensions []string
	// ExcludedFilenames are exact file names.
	ExcludedFilenames []string
	// ExcludedPatterns are regular expressions matched against the full path.
	ExcludedPatterns []string

	DocumentationStems        []string
	ManifestNames             []string
	EntryPointStems           []string
	EntryPointExtensions      []string
	EntryPointNames           []string
	InfrastructureDirectories []string
	InfrastructureNames       []string
}

// DefaultPolicy returns the built-in tables.
func DefaultPolicy() Policy {
	return Policy{
		ExcludedDirectories: []string{
			"node_modules", "vendor", "dist", "build", ".git", "__pycache__",
			".next", ".nuxt", "venv", ".venv", "env", ".env", "target",
			"coverage", ".nyc_output", "eggs", ".eggs", "htmlcov", ".tox",
			".pytest_cache", ".mypy_cache", ".ruff_cache", "site-packages",
			"bower_components", "jspm_packages", ".gradle", ".idea", ".vscode",
			"Pods", "DerivedData",
		},
		ExcludedExtensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp", ".bmp", ".tiff",
			".mp4", ".mp3", ".wav", ".ogg", ".mov", ".avi",
			".woff", ".woff2", ".ttf", ".eot", ".otf",
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".zip", ".tar", ".gz", ".bz2", ".7z", ".rar", ".xz",
			".exe", ".dll", ".so", ".dylib", ".a", ".lib",
			".pyc", ".pyo", ".class", ".jar", ".war",
			".bin", ".dat", ".db", ".sqlite", ".sqlite3",
			".lock",
		},
		ExcludedFilenames: []string{
			"package-lock.json", "yarn.lock", "poetry.lock", "Pipfile.lock",
			"composer.lock", "Gemfile.lock", "Cargo.lock", "cargo.lock", "pnpm-lock.yaml",
			"shrinkwrap.json", "npm-shrinkwrap.json", "go.sum",
			".DS_Store", "Thumbs.db", ".gitkeep",
		},
		ExcludedPatterns: []string{
			`\.min\.(js|css)$`,
			`\.bundle\.js$`,
			`\.(pb|pb2)\.go$`,
			`\.generated\.\w+$`,
			`_pb2(_grpc)?\.py$`,
			`migrations?/\d+[^/]*\.py$`,
			`\.snap$`,
			`\.map$`,
			`test[_-]?fixtures?/`,
			`(^|/)fixtures?/.*\.(json|ya?ml)$`,
		},
		DocumentationStems: []string{
			"README", "ARCHITECTURE", "OVERVIEW", "CONTRIBUTING", "CHANGELOG", "DESIGN",
		},
		ManifestNames: []string{
			"package.json", "pyproject.toml", "setup.py", "setup.cfg",
			"Cargo.toml", "go.mod", "pom.xml", "build.gradle", "build.gradle.kts",
			"settings.gradle", "settings.gradle.kts", "Gemfile", "*.gemspec",
			"composer.json", "mix.exs", "pubspec.yaml", "Package.swift", "*.csproj",
			"requirements.txt", "requirements-*.txt", "Pipfile", "deno.json",
			"Dockerfile", "Dockerfile.*", "*.Dockerfile", "Containerfile",
			"docker-compose.yml", "docker-compose.yaml", "docker-compose.*.yml",
			"docker-compose.*.yaml", "compose.yml", "compose.yaml",
			".env.example", ".env.sample",
		},
		EntryPointStems: []string{
			"main", "app", "server", "index", "cli", "__main__", "__init__",
		},
		EntryPointExtensions: []string{
			".py", ".go", ".js", ".mjs", ".cjs", ".ts", ".tsx", ".jsx", ".rb", ".rs",
			".java", ".kt", ".cs", ".cpp", ".cc", ".c", ".swift", ".php", ".ex", ".exs",
		},
		EntryPointNames: []string{
			"Program.cs", "Startup.cs", "Application.java", "Application.kt",
			"manage.py", "wsgi.py", "asgi.py", "lib.rs", "mod.rs", "config.ru",
		},
		InfrastructureDirectories: []string{
			".github/workflows", ".circleci", ".buildkite", ".gitlab", ".woodpecker",
		},
		InfrastructureNames: []string{
			"Makefile", "GNUmakefile", "*.mk", "Taskfile*", "justfile", "Jenkinsfile",
			".gitlab-ci.yml", ".gitlab-ci.yaml", ".travis.yml", "azure-pipelines.yml",
			"cloudbuild.yaml", "bitbucket-pipelines.yml", "Procfile", "Caddyfile",
			"nginx.conf", "*.nginx.conf", "supervisord*", "gunicorn*", "uwsgi*",
			"skaffold.yaml", "Tiltfile", "vercel.json", "netlify.toml", "fly.toml",
		},
	}
}

// Extend returns a copy of the policy with the entries of additions appended to each table.
func (policy Policy) Extend(additions Policy) Policy {
	return Policy{
		ExcludedDirectories:       mergeTable(policy.ExcludedDirectories, additions.ExcludedDirectories),
		ExcludedExtensions:        mergeTable(policy.ExcludedExtensions, additions.ExcludedExtensions),
		ExcludedFilenames:         mergeTable(policy.ExcludedFilenames, additions.ExcludedFilenames),
		ExcludedPatterns:          mergeTable(policy.ExcludedPatterns, additions.ExcludedPatterns),
		DocumentationStems:        mergeTable(policy.DocumentationStems, additions.DocumentationStems),
		ManifestNames:             mergeTable(policy.ManifestNames, additions.ManifestNames),
		EntryPointStems:           mergeTable(policy.EntryPointStems, additions.EntryPointStems),
		EntryPointExtensions:      mergeTable(policy.EntryPointExtensions, additions.EntryPointExtensions),
		EntryPointNames:           mergeTable(policy.EntryPointNames, additions.EntryPointNames),
		InfrastructureDirectories: mergeTable(policy.InfrastructureDirectories, additions.InfrastructureDirectories),
		InfrastructureNames:       mergeTable(policy.InfrastructureNames, additions.InfrastructureNames),
	}
}

// WithoutExcludedDirectories returns a copy of the policy whose excluded
// directory table omits names.
func (policy Policy) WithoutExcludedDirectories(names ...string) Policy {
	removed := make(map[string]struct{}, len(names))
	for _, name := range names {
		removed[name] = struct{}{}
	}
	kept := make([]string, 0, len(policy.ExcludedDirectories))
	for _, directory := range policy.ExcludedDirectories {
		if _, drop := removed[directory]; !drop {
			kept = append(kept, directory)
		}
	}
	policy.ExcludedDirectories = kept
	return policy
}

func mergeTable(base []string, additions []string) []string {
	merged := make([]string, 0, len(base)+len(additions))
	merged = append(merged, base...)
	merged = append(merged, additions...)
	return utils.DeduplicatePatterns(merged)
}
