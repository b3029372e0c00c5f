package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUsage reports invalid command line arguments.
var ErrUsage = errors.New("usage")

// ParseArgs parses a subcommand and its flags into Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Command = Command(args[0])
		args = args[1:]
	}

	var typesRaw, ignoreRaw string
	fs := pflag.NewFlagSet("mirror "+string(cfg.Command), pflag.ContinueOnError)
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log at debug level")

	switch cfg.Command {
	case CommandGen, CommandPack:
		fs.StringVarP(&cfg.Pkg, "pkg", "p", "", "import path of the package to read")
		fs.StringVar(&typesRaw, "types", "", "comma-separated type name patterns to include")
		fs.StringVar(&ignoreRaw, "ignore-types", "", "comma-separated type name patterns to skip")
		fs.StringVarP(&cfg.Out, "out", "o", "", "output file")
		if cfg.Command == CommandGen {
			fs.StringVar(&cfg.FuncName, "func", "", "name of the generated register function")
		} else {
			fs.StringVar(&cfg.Dir, "dir", "", "root directory of the unit tree")
		}
	case CommandList:
		fs.StringVar(&cfg.Archive, "archive", "", "zip archive to list")
		fs.StringVar(&cfg.Dir, "dir", "", "root directory of a unit tree")
		fs.StringVar(&cfg.Namespace, "namespace", "", "namespace to list under --dir")
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrUsage, cfg.Command)
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}

	cfg.Types = splitCommaList(typesRaw)
	cfg.IgnoreTypes = splitCommaList(ignoreRaw)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Command {
	case "":
		return errors.New("a command is required: gen, pack or ls")
	case CommandGen:
		if strings.TrimSpace(cfg.Pkg) == "" {
			return errors.New("--pkg is required")
		}
	case CommandPack:
		if strings.TrimSpace(cfg.Pkg) == "" {
			return errors.New("--pkg is required")
		}
		if (cfg.Out == "") == (cfg.Dir == "") {
			return errors.New("exactly one of --out or --dir is required")
		}
	case CommandList:
		if cfg.Archive != "" {
			if cfg.Dir != "" || cfg.Namespace != "" {
				return errors.New("--archive excludes --dir and --namespace")
			}
			return nil
		}
		if cfg.Dir == "" || cfg.Namespace == "" {
			return errors.New("--archive or both --dir and --namespace are required")
		}
	}
	return nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
