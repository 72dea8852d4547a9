package merchants

import (
	"regexp"
	"strings"

	"github.com/couponhub/dashboard/internal/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.Invalid("merchant name is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return shared.Invalid("merchant slug %q must be lowercase words joined by dashes", in.Slug)
	}
	return nil
}
