package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/go-playground/validator/v10"
)

// ProjectFileName is the project configuration file looked up in the project root
const ProjectFileName = "deploy.toml"

//go:embed deploy.default.toml
var defaultProjectFile string

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultProjectFile returns the built-in project configuration
func DefaultProjectFile() string {
	return defaultProjectFile
}

// LoadProjectFile loads deploy.toml from the project root, falling back to the
// built-in configuration when the file doesn't exist.
func LoadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	var project config.ProjectFile
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &project); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
		}
	} else {
		if _, err := toml.Decode(defaultProjectFile, &project); err != nil {
			return nil, fmt.Errorf("failed to parse default project file: %w", err)
		}
	}

	applyPathDefaults(&project.Paths)

	if err := ValidateProjectFile(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

// ValidateProjectFile checks the project file against its struct constraints
func ValidateProjectFile(project *config.ProjectFile) error {
	err := validate.Struct(project)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("invalid %s: %w", ProjectFileName, err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, fmt.Sprintf("%s: failed '%s' check", strings.TrimPrefix(fe.Namespace(), "ProjectFile."), fe.Tag()))
	}
	return fmt.Errorf("invalid %s: %s", ProjectFileName, strings.Join(problems, "; "))
}

func applyPathDefaults(paths *config.PathsConfig) {
	if paths.Sources == "" {
		paths.Sources = "contracts"
	}
	if paths.Artifacts == "" {
		paths.Artifacts = "artifacts"
	}
	if paths.Deployments == "" {
		paths.Deployments = "deployments"
	}
	if paths.Cache == "" {
		paths.Cache = "cache"
	}
}
