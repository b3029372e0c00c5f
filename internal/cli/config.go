package cli

// Command names a subcommand.
type Command string

const (
	CommandGen  Command = "gen"
	CommandPack Command = "pack"
	CommandList Command = "ls"
)

// DefaultOutput is the file gen writes when --out is absent.
const DefaultOutput = "register_gen.go"

// Config stores CLI options for a single run.
type Config struct {
	Command     Command
	Pkg         string
	Types       []string
	IgnoreTypes []string
	FuncName    string
	Out         string
	Dir         string
	Archive     string
	Namespace   string
	Verbose     bool
	ShowVersion bool
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	if c.Out == "" {
		return DefaultOutput
	}
	return c.Out
}

// RegisterFunc returns the generated function name. Empty means derived
// from the package.
func (c *Config) RegisterFunc() string {
	return c.FuncName
}
