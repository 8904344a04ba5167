package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	gitExecutable      = "git"
)

// Version is set at link time with -ldflags "-X github.com/temirov/digest/internal/utils.Version=v1.2.3".
var Version = ""

var gitDescribeAttempts = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the linked version, then the module version
// from build info, then the output of git describe for a source checkout.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if moduleVersion := buildInfo.Main.Version; moduleVersion != "" && moduleVersion != developmentVersion {
			return moduleVersion
		}
	}
	repositoryRoot, found := findRepositoryRoot(".")
	if !found {
		return unknownVersion
	}
	for _, arguments := range gitDescribeAttempts {
		if described := gitDescribe(repositoryRoot, arguments); described != "" {
			return described
		}
	}
	return unknownVersion
}

func gitDescribe(directory string, arguments []string) string {
	// #nosec G204
	command := exec.Command(gitExecutable, arguments...)
	command.Dir = directory
	commandOutput, commandError := command.Output()
	if commandError != nil {
		return ""
	}
	return strings.TrimSpace(string(commandOutput))
}

// findRepositoryRoot walks upward from startDirectory to the first directory holding a .git directory.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", false
	}
	for {
		if information, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && information.IsDir() {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
