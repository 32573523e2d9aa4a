package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// toggleFlagTypeName is reported by toggle flags so normalizeToggleArguments can find them.
const (
	toggleFlagTypeName      = "bool"
	toggleTrueLiteral       = "true"
	toggleAcceptedLiterals  = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueLabel = "invalid boolean value"
)

var toggleLiterals = map[string]bool{
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

func parseToggleLiteral(input string) (bool, bool) {
	value, known := toggleLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, known
}

// toggleFlag is a boolean flag that may stand alone or take a literal such
// as "--copy no".
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		*flag.target = true
		return nil
	}
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleInvalidValueLabel, input, flag.name, toggleAcceptedLiterals)
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

func addToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	*target = false
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(false)
	registered.NoOptDefVal = toggleTrueLiteral
}

// normalizeToggleArguments rewrites "--flag literal" into "--flag=literal"
// for every toggle flag declared anywhere under root. Any other word after a
// toggle flag stays a positional argument.
func normalizeToggleArguments(root *cobra.Command, arguments []string) []string {
	toggles := map[string]struct{}{}
	collectToggleNames(root, toggles)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		if isLongFlag && !strings.Contains(name, "=") && index+1 < len(arguments) {
			if _, isToggle := toggles[name]; isToggle {
				next := arguments[index+1]
				if _, known := parseToggleLiteral(next); known && !strings.HasPrefix(next, "-") {
					normalized = append(normalized, argument+"="+next)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, names map[string]struct{}) {
	record := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlag); isToggle {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(record)
	command.Flags().VisitAll(record)
	for _, child := range command.Commands() {
		collectToggleNames(child, names)
	}
}
