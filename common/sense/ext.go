// Package sense reads feature switches from the environment and the raw
// command line, before any flag parsing has happened.
package sense

import (
	"os"
	"strings"
)

var mainArgv = os.Args // tests override

// FeatureEnabled reports whether envname is truthy or -flagname appears on
// the command line (and is not followed by a falsy value).
func FeatureEnabled(envname, flagname string) bool {
	if envname == "" && flagname == "" {
		panic("FeatureEnabled called with no args")
	}
	return (envname != "" && EnvBool(envname)) || (flagname != "" && argBool(flagname))
}

// lookupArg finds -flagname, --flagname or -flagname=value in the command
// line, skipping the program name. The value is the text after '=' or the
// following argument.
func lookupArg(flagname string) (bool, string) {
	if strings.Contains(flagname, "-") {
		panic("flagname should not contain -")
	}
	for i := 1; i < len(mainArgv); i++ {
		arg := strings.TrimLeft(mainArgv[i], "-")
		if arg == mainArgv[i] {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok && name == flagname {
			return true, value
		}
		if arg == flagname {
			if i+1 < len(mainArgv) {
				return true, mainArgv[i+1]
			}
			return true, ""
		}
	}
	return false, ""
}

// argBool treats a falsy value after the flag as the flag being off.
func argBool(flagname string) bool {
	found, next := lookupArg(flagname)
	return found && !isFalsy(next)
}

func boolString(s string, unset, unparsable bool) bool {
	switch strings.ToLower(s) {
	case "":
		return unset
	case "true", "yes", "1", "on", "enabled", "enable":
		return true
	case "false", "no", "0", "off", "disabled", "disable":
		return false
	default:
		return unparsable
	}
}

func isFalsy(s string) bool {
	return !boolString(s, true, true)
}

// EnvBool returns false if empty/unset/falsy, true if otherwise non-empty
func EnvBool(name string) bool {
	x, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	return boolString(x, false, true)
}

// EnvBoolDisabled returns true only if set and falsy (such as "0" or "false").
func EnvBoolDisabled(name string) bool {
	x, ok := os.LookupEnv(name)
	return ok && isFalsy(x)
}

// EnvOr returns the trimmed value of the environment variable, or def if it
// is unset or blank.
func EnvOr(name, def string) string {
	if x := Getenv(name); x != "" {
		return x
	}
	return def
}

// Getenv returns the trimmed value of the environment variable name
func Getenv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
