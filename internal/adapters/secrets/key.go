package secrets

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
)

var ErrEmptyKey = errors.New("secret key is empty")

// RelativePath turns a "provider://path" key into "provider/path". Keys
// without a scheme are used as they are. Absolute and escaping paths are
// rejected.
func RelativePath(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrEmptyKey
	}

	if scheme, rest, ok := strings.Cut(trimmed, "://"); ok {
		if scheme == "" || rest == "" {
			return "", fmt.Errorf("invalid secret key %q", key)
		}
		trimmed = scheme + "/" + rest
	}

	cleaned := path.Clean(trimmed)
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") || cleaned == "." {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return cleaned, nil
}

// NotFound reports that backend holds nothing under name. The result
// matches domain.ErrSecretNotFound.
func NotFound(backend string, name string) error {
	return fmt.Errorf("%s secret %q: %w", backend, name, domain.ErrSecretNotFound)
}

// OpError wraps a failed backend operation on name. detail carries extra
// diagnostics from the backend (such as a command's stderr) and is
// appended when present.
func OpError(backend string, op string, name string, err error, detail string) error {
	if detail == "" {
		return fmt.Errorf("%s %s %q: %w", backend, op, name, err)
	}

	return fmt.Errorf("%s %s %q: %w: %s", backend, op, name, err, detail)
}

// TrimValue drops the line ending a secret was stored or printed with.
func TrimValue(value string) string {
	return strings.TrimRight(value, "\r\n")
}
