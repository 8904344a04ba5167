package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName          = "bool"
	toggleFlagTrueLiteral       = "true"
	toggleFlagAcceptedValues    = "true, false, yes, no, on, off, 1, 0"
	toggleFlagInvalidValueLabel = "invalid boolean value"
	flagTerminator              = "--"
	longFlagPrefix              = "--"
	inlineFlagValueFormat       = "--%s=%s"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral reports the boolean meaning of a flag value. An empty
// value means the flag was given without one.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := toggleFlagLiterals[normalized]
	return parsed, known
}

// toggleFlag is a boolean flag that also accepts yes/no and on/off spellings,
// either inline (--summary=no) or as the following argument (--summary no).
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleFlagInvalidValueLabel, input, flag.name, toggleFlagAcceptedValues)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag defines a toggle flag on flagSet with the given default.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleFlagTrueLiteral
}

// normalizeToggleArguments joins a toggle flag with a following boolean literal
// so that "--summary no" parses as "--summary=no". Paths and other values after
// a toggle flag are left as positional arguments.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == flagTerminator {
			return append(normalized, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(current, longFlagPrefix)
		if isLongFlag && !strings.Contains(flagName, "=") && index+1 < len(arguments) {
			if _, isToggle := toggleNames[flagName]; isToggle {
				next := arguments[index+1]
				if isJoinableToggleLiteral(next) {
					normalized = append(normalized, fmt.Sprintf(inlineFlagValueFormat, flagName, next))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

// isJoinableToggleLiteral reports whether a separate argument after a toggle
// flag is its value. Single-letter spellings are only accepted inline since
// they are also plausible directory names.
func isJoinableToggleLiteral(argument string) bool {
	normalized := strings.ToLower(strings.TrimSpace(argument))
	if _, known := toggleFlagLiterals[normalized]; !known {
		return false
	}
	return len(normalized) > 1 || normalized == "1" || normalized == "0"
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlag); isToggle {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
