package remote

import (
	"strings"

	"github.com/stackmap/stackmap/pkg/errors"
)

// Structured error codes the catalog attaches to rejections that indicate
// a referential-integrity block.
var integrityCodes = map[string]bool{
	"CONFLICT":            true,
	"IN_USE":              true,
	"FAILED_PRECONDITION": true,
}

// Message fragments that indicate a referential-integrity rejection when
// no structured code is present. Substring matching is a best-effort
// degradation and may misclassify; the structured code path is preferred.
var integrityFragments = []string{
	"in use",
	"referenced by",
	"has dependents",
	"dependency exists",
}

// ReferentialIntegrity reports whether a remote rejection indicates the
// target resource is still referenced by other resources. It checks the
// structured error code first and falls back to matching known message
// fragments.
func ReferentialIntegrity(err error) bool {
	re, ok := errors.AsRemote(err)
	if !ok || re.Unavailable {
		return false
	}
	if re.Code != "" {
		return integrityCodes[re.Code]
	}
	msg := strings.ToLower(re.Message)
	for _, fragment := range integrityFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
