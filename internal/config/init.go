package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/digest/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	templateIndent = 2

	configurationFileMode      = 0o600
	configurationDirectoryMode = 0o755

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeDirectoryFormat    = "resolve home directory for configuration: %w"
	errorInitCreateDirectoryFormat  = "create configuration directory %s: %w"
	errorInitUnsupportedTarget      = "unsupported init target %q"
	errorInitExistsFormat           = "configuration file already exists at %s"
	errorInitWriteFormat            = "write configuration to %s: %w"
	errorInitRenderFormat           = "render default configuration: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultConfigurationDocument renders DefaultApplicationConfiguration as YAML.
func DefaultConfigurationDocument() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(templateIndent)
	if encodeError := encoder.Encode(DefaultApplicationConfiguration()); encodeError != nil {
		return nil, fmt.Errorf(errorInitRenderFormat, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(errorInitRenderFormat, closeError)
	}
	return buffer.Bytes(), nil
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the written path. An existing file is replaced only with Force.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, destinationError := initDestination(options)
	if destinationError != nil {
		return "", destinationError
	}
	document, renderError := DefaultConfigurationDocument()
	if renderError != nil {
		return "", renderError
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if options.Force {
		openFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	// #nosec G304
	fileHandle, openError := os.OpenFile(destinationPath, openFlags, configurationFileMode)
	if openError != nil {
		if errors.Is(openError, fs.ErrExist) {
			return "", fmt.Errorf(errorInitExistsFormat, destinationPath)
		}
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, openError)
	}
	if _, writeError := fileHandle.Write(document); writeError != nil {
		_ = fileHandle.Close()
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, writeError)
	}
	if closeError := fileHandle.Close(); closeError != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, closeError)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf(errorInitHomeDirectoryFormat, homeError)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirError := os.MkdirAll(configurationDirectory, configurationDirectoryMode); mkdirError != nil {
			return "", fmt.Errorf(errorInitCreateDirectoryFormat, configurationDirectory, mkdirError)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf(errorInitUnsupportedTarget, options.Target)
	}
}
