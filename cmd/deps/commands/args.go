package commands

import (
	"strings"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"
)

const (
	cmakeLibFlag  = "--cmake-lib"
	headerLibFlag = "--header-lib"
	manualLibFlag = "--manual-lib"

	// excludeKeyword introduces an exclude pattern for the preceding manual rule.
	excludeKeyword = "EXCLUDE"
)

// splitJobArgs extracts the job groups from args in order.
// Every token that is not part of a job group is returned in rest, unchanged and in order.
func splitJobArgs(args []string) (jobs []domain.Job, rest []string, err error) {
	flags := newGlobalFlagSet("groups", &globalOptions{})
	takeGroup := func(args []string) []string {
		for i, tok := range args {
			if endsGroup(flags, tok) {
				return args[:i]
			}
		}
		return args
	}

	for i := 0; i < len(args); {
		tok := args[i]
		switch tok {
		case cmakeLibFlag:
			job, n, err := parseCMakeLib(args[i+1:])
			if err != nil {
				return nil, nil, err
			}
			jobs = append(jobs, job)
			i += 1 + n
		case headerLibFlag:
			group := takeGroup(args[i+1:])
			job, err := parseHeaderLib(group)
			if err != nil {
				return nil, nil, err
			}
			jobs = append(jobs, job)
			i += 1 + len(group)
		case manualLibFlag:
			group := takeGroup(args[i+1:])
			job, err := parseManualLib(group)
			if err != nil {
				return nil, nil, err
			}
			jobs = append(jobs, job)
			i += 1 + len(group)
		default:
			rest = append(rest, tok)
			i++
		}
	}
	return jobs, rest, nil
}

// endsGroup reports whether tok starts a new option: any long option, or a
// shorthand of the global flags such as -j4 or -v.
func endsGroup(flags *pflag.FlagSet, tok string) bool {
	if strings.HasPrefix(tok, "--") {
		return true
	}
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	return flags.ShorthandLookup(tok[1:2]) != nil
}

// parseCMakeLib consumes exactly four values: source, install, build folder and a
// shell-quoted argument string. The argument string may itself start with dashes.
func parseCMakeLib(args []string) (domain.Job, int, error) {
	const n = 4
	if len(args) < n {
		return domain.Job{}, 0, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", cmakeLibFlag), "got", len(args))
	}
	for _, v := range args[:n-1] {
		if strings.HasPrefix(v, "--") {
			return domain.Job{}, 0, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", cmakeLibFlag), "value", v)
		}
	}
	cmakeArgs, err := shlex.Split(args[3])
	if err != nil {
		return domain.Job{}, 0, zerr.With(zerr.Wrap(err, domain.ErrConfiguration.Error()), "cmake_args", args[3])
	}
	return domain.NewCMakeJob(args[0], args[1], args[2], cmakeArgs), n, nil
}

func parseHeaderLib(group []string) (domain.Job, error) {
	if len(group) < 3 {
		return domain.Job{}, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", headerLibFlag), "got", len(group))
	}
	return domain.NewHeaderOnlyJob(group[0], group[1], group[2:]), nil
}

// parseManualLib reads SOURCE INSTALL followed by rules of the form
// PATTERN DESTINATION [EXCLUDE PATTERN]...
func parseManualLib(group []string) (domain.Job, error) {
	if len(group) < 4 {
		return domain.Job{}, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", manualLibFlag), "got", len(group))
	}

	var rules []domain.InstallRule
	values := group[2:]
	for i := 0; i < len(values); {
		if values[i] == excludeKeyword {
			return domain.Job{}, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", manualLibFlag), "reason", "EXCLUDE before any rule")
		}
		if i+1 >= len(values) || values[i+1] == excludeKeyword {
			return domain.Job{}, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", manualLibFlag), "pattern", values[i])
		}
		rule := domain.InstallRule{Include: values[i], Destination: values[i+1]}
		i += 2
		for i < len(values) && values[i] == excludeKeyword {
			if i+1 >= len(values) {
				return domain.Job{}, zerr.With(zerr.With(domain.ErrMissingJobArgument, "flag", manualLibFlag), "pattern", rule.Include)
			}
			rule.Excludes = append(rule.Excludes, values[i+1])
			i += 2
		}
		rules = append(rules, rule)
	}
	return domain.NewManualJob(group[0], group[1], rules), nil
}
