// Package flagx splits a command line between the global configuration flags
// and whatever follows them (the subcommand and its own flags).
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFileFlags are the flags that name a JSON configuration file.
var ConfigFileFlags = []string{"-c", "-config"}

// partition walks args once and separates the allowed flags (with their
// values) from everything else, keeping the relative order of both groups.
//
// A flag is recognised either as "-f=value" or as "-f" followed by a value
// that does not itself start with '-'.
func partition(args []string, allowedFlags []string) (kept, rest []string) {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	kept = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				kept = append(kept, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			kept = append(kept, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				kept = append(kept, args[i+1])
				i++
			}
			continue
		}

		rest = append(rest, arg)
	}

	return kept, rest
}

// FilterArgs returns only the allowed flags of args, together with their values.
func FilterArgs(args []string, allowedFlags []string) []string {
	kept, _ := partition(args, allowedFlags)
	return kept
}

// DropArgs is the complement of FilterArgs: it returns args with every allowed
// flag and its value removed.
func DropArgs(args []string, allowedFlags []string) []string {
	_, rest := partition(args, allowedFlags)
	return rest
}

// JsonConfigFlags extracts the configuration file path given with -c or
// -config from os.Args. It returns "" when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], ConfigFileFlags)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
