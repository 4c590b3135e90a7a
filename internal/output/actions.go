package output

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/glitch452/easy-npm-publish/internal/versioning"
)

// GitHubOutputEnv names the file that receives step outputs.
const GitHubOutputEnv = "GITHUB_OUTPUT"

// Output names published for downstream steps.
const (
	CurrentVersion   = "current-version"
	IncrementType    = "increment-type"
	NextVersion      = "next-version"
	NextVersionMajor = "next-version-major"
	NextVersionMinor = "next-version-minor"
	NextVersionPatch = "next-version-patch"
)

// Pair is one named step output.
type Pair struct {
	Name  string
	Value string
}

// VersionOutputs returns the step outputs describing a version calculation.
func VersionOutputs(info versioning.Info) []Pair {
	return []Pair{
		{Name: CurrentVersion, Value: info.Current.String()},
		{Name: IncrementType, Value: info.IncrementType.String()},
		{Name: NextVersion, Value: info.Next.String()},
		{Name: NextVersionMajor, Value: strconv.FormatInt(info.Next.Major(), 10)},
		{Name: NextVersionMinor, Value: strconv.FormatInt(info.Next.Minor(), 10)},
		{Name: NextVersionPatch, Value: strconv.FormatInt(info.Next.Patch(), 10)},
	}
}

// ActionWriter records step outputs. When Path is empty the outputs are
// printed to Fallback as name=value lines instead.
type ActionWriter struct {
	Path     string
	Fallback io.Writer
}

// NewActionWriter returns a writer targeting $GITHUB_OUTPUT, falling back to
// fallback outside of GitHub Actions.
func NewActionWriter(fallback io.Writer) *ActionWriter {
	return &ActionWriter{Path: os.Getenv(GitHubOutputEnv), Fallback: fallback}
}

// Write appends the outputs.
func (w *ActionWriter) Write(pairs []Pair) error {
	if w.Path == "" {
		out := w.Fallback
		if out == nil {
			out = os.Stdout
		}
		for _, p := range pairs {
			if _, err := fmt.Fprintf(out, "%s=%s\n", p.Name, p.Value); err != nil {
				return fmt.Errorf("printing output %s: %w", p.Name, err)
			}
		}
		return nil
	}

	var b strings.Builder
	for _, p := range pairs {
		entry, err := formatEntry(p)
		if err != nil {
			return err
		}
		b.WriteString(entry)
	}

	f, err := os.OpenFile(w.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s file: %w", GitHubOutputEnv, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s file: %w", GitHubOutputEnv, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s file: %w", GitHubOutputEnv, err)
	}
	return nil
}

// formatEntry uses the single line form unless the value contains a newline,
// in which case a heredoc with a random delimiter is written.
func formatEntry(p Pair) (string, error) {
	if !strings.ContainsAny(p.Value, "\r\n") {
		return p.Name + "=" + p.Value + "\n", nil
	}

	delim, err := delimiter()
	if err != nil {
		return "", err
	}
	if strings.Contains(p.Name, delim) || strings.Contains(p.Value, delim) {
		return "", fmt.Errorf("output %s collides with delimiter", p.Name)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", p.Name, delim, p.Value, delim), nil
}

func delimiter() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating output delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(buf), nil
}
