package cmd

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"

	"github.com/Laisky/image-search-client/library/config"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateClientConfig validates the configuration every backend-facing command needs.
func validateClientConfig() error {
	return validateClientConfigWithGetter(func(key string) any {
		return gconfig.Shared.Get(key)
	})
}

// validateClientConfigWithGetter validates client configuration via a key-value getter.
// It returns nil when all configured values are valid.
func validateClientConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)
	validateBackendConfig(get, &validationErrs)

	return joinValidationErrors(validationErrs)
}

// validateMockBackendConfigWithGetter validates the settings of the fake backend.
func validateMockBackendConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)
	validateOptionalIntMin(get, "settings.mock_backend.page_size", 1, &validationErrs)
	validateOptionalIntMin(get, "settings.mock_backend.results_per_term", 0, &validationErrs)
	validateOptionalIntMin(get, "settings.mock_backend.recent_limit", 1, &validationErrs)

	return joinValidationErrors(validationErrs)
}

func joinValidationErrors(validationErrs []string) error {
	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateBackendConfig validates the backend url and timeout.
// The url may come from the `backend` flag or from the config file.
func validateBackendConfig(get configGetter, errs *[]string) {
	key := "backend"
	if raw, _ := parseStrictString(get(key)); strings.TrimSpace(raw) == "" {
		key = config.KeyBackendURL
		if get(key) == nil {
			appendValidationError(errs, "%s (or --backend) is required", key)
			return
		}
	}

	validateOptionalURL(get, key, errs)
	validateOptionalDuration(get, config.KeyBackendTimeout, errs)
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalURL validates an optionally configured http(s) URL.
func validateOptionalURL(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string URL", key)
		return
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		appendValidationError(errs, "%s must not be empty", key)
		return
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		appendValidationError(errs, "%s must be a valid absolute http(s) URL", key)
	}
}

// validateOptionalDuration validates an optionally configured duration like `5s`, `0` turns it off.
func validateOptionalDuration(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a duration string", key)
		return
	}

	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d < 0 {
		appendValidationError(errs, "%s must be a non-negative duration", key)
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// appendValidationError formats and appends a validation error.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
