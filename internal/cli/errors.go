package cli

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"

	"github.com/glitch452/easy-npm-publish/internal/config"
	clierrors "github.com/glitch452/easy-npm-publish/internal/errors"
	"github.com/glitch452/easy-npm-publish/internal/git"
	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/manifest"
	"github.com/glitch452/easy-npm-publish/internal/registry"
	"github.com/glitch452/easy-npm-publish/internal/versioning"
)

// toCLIError maps a command failure to a CLIError with remediation steps.
func toCLIError(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		validationErr *config.ValidationError
		mismatchErr   *history.TagMismatchError
		versionErr    *versioning.InvalidVersionError
		gitErr        *git.CommandError
		statusErr     *registry.StatusError
		pathErr       *fs.PathError
		exitErr       *exec.ExitError
	)

	switch {
	case errors.As(err, &validationErr):
		return configError(err, validationErr)
	case errors.As(err, &mismatchErr):
		return clierrors.TagMismatch(mismatchErr.Tag, mismatchErr.Expected, mismatchErr.Actual)
	case errors.As(err, &versionErr):
		field := versionErr.Field
		if field == "" {
			field = "input"
		}
		return clierrors.InvalidVersion(field, versionErr.Input)
	case git.IsNotRepository(err):
		return clierrors.GitNotRepository()
	case errors.As(err, &gitErr):
		return clierrors.GitCommandFailed(err)
	case errors.As(err, &statusErr):
		return clierrors.RegistryRequestFailed(err)
	case errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist) && filepath.Base(pathErr.Path) == manifest.FileName:
		return clierrors.ManifestNotFound(pathErr.Path)
	case errors.As(err, &exitErr):
		return clierrors.PublishFailed(err)
	case errors.Is(err, context.DeadlineExceeded):
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "operation timed out",
			"Check network access to the registry, GitHub and the git remote")
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

func configError(err error, ve *config.ValidationError) *clierrors.CLIError {
	switch {
	case ve.Field == "registry_token" && ve.Message == "is required":
		return clierrors.MissingRegistryToken()
	case ve.Field == "github_token":
		return clierrors.MissingGitHubToken()
	case ve.Field == "" && ve.Message == "config file not found":
		return clierrors.ConfigFileNotFound(ve.FilePath)
	default:
		return clierrors.InvalidConfig(err)
	}
}
