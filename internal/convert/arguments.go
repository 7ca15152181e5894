package convert

import (
	"fmt"
	"sort"
	"strings"
)

// FileNameArgument names the source document; every other required argument
// is a placeholder value.
const FileNameArgument = "file-name"

// RequiredArguments lists the arguments every conversion needs, in report order.
var RequiredArguments = []string{
	FileNameArgument,
	"company-address",
	"esop-sc-address",
	"options-per-share",
	"strike-price",
	"pool-options",
	"new-employee-pool-share",
	"employee-address",
	"issued-options",
	"employee-pool-options",
	"employee-extra-options",
	"issue-date",
	"vesting-period",
	"cliff-period",
	"bonus-options",
	"residual-amount",
	"time-to-sign",
	"curr-block-hash",
}

// PlaceholderArguments returns RequiredArguments without the file name.
func PlaceholderArguments() []string {
	out := make([]string, 0, len(RequiredArguments)-1)
	for _, name := range RequiredArguments {
		if name != FileNameArgument {
			out = append(out, name)
		}
	}
	return out
}

// TagFor returns the literal tag text a placeholder argument replaces in the
// converted document: company-address becomes company_address.
func TagFor(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// ArgumentError lists required arguments that were not supplied.
type ArgumentError struct {
	Missing []string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("missing required arguments: %s", strings.Join(e.Missing, ", "))
}

// Issues renders one "<name> required" line per missing argument.
func (e *ArgumentError) Issues() []string {
	out := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		out[i] = name + " required"
	}
	return out
}

// CheckArguments returns the required names absent from values, in
// RequiredArguments order, and the supplied names that are not recognised,
// sorted.
func CheckArguments(values map[string]string) (missing, invalid []string) {
	known := make(map[string]struct{}, len(RequiredArguments))
	for _, name := range RequiredArguments {
		known[name] = struct{}{}
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range values {
		if _, ok := known[name]; !ok {
			invalid = append(invalid, name)
		}
	}
	sort.Strings(invalid)
	return missing, invalid
}
