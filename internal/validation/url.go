package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ValidateWebURL accepts absolute http and https URLs with a host.
func ValidateWebURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", field)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}

	return nil
}

var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// Schemes a browser resolves locally or executes instead of handing off to
// an installed app.
var forbiddenAppSchemes = map[string]bool{
	"javascript":  true,
	"vbscript":    true,
	"data":        true,
	"file":        true,
	"blob":        true,
	"filesystem":  true,
	"about":       true,
	"view-source": true,
	"jar":         true,
}

// ValidateAppURL accepts any absolute URL, so custom schemes such as
// myapp://path pass.
func ValidateAppURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", field)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%s must be an absolute URL", field)
	}

	scheme := strings.ToLower(u.Scheme)
	if !schemePattern.MatchString(scheme) || forbiddenAppSchemes[scheme] {
		return fmt.Errorf("%s uses a forbidden scheme", field)
	}

	return nil
}
