package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"simpleimport/internal/engine/parser"
)

const versionString = "1.0.0"

type cliOptions struct {
	selections      regionList
	insert          bool
	resolveAll      bool
	root            string
	overridesPath   string
	choose          string
	write           bool
	diff            bool
	explain         bool
	metricsTextfile string
	verbose         bool
	version         bool
	args            []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("simpleimport", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "usage: simpleimport [flags] <file>")
		fs.PrintDefaults()
	}

	fs.Var(&opts.selections, "at", "Selection as byte `offset[:end]`; repeat for several selections")
	fs.BoolVar(&opts.insert, "insert", false, "Insert statements at the top of the file and keep the name where the token was typed")
	fs.BoolVar(&opts.resolveAll, "resolve-all", false, "Import every package.json dependency used in the file")
	fs.StringVar(&opts.root, "root", "", "Project root (default: nearest directory with .simple-import.json, package.json or .git)")
	fs.StringVar(&opts.overridesPath, "overrides", "", "TOML file with global setting overrides (default: ~/.config/simple-import/settings.toml)")
	fs.StringVar(&opts.choose, "choose", "", "Comma separated answers for ambiguous searches, -1 dismisses")
	fs.BoolVar(&opts.write, "write", false, "Write the result back to the file")
	fs.BoolVar(&opts.diff, "diff", false, "Print a colored diff instead of the result")
	fs.BoolVar(&opts.explain, "explain", false, "Print how every token was resolved")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this textfile")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

// validateOptions rejects flag combinations that cannot run.
func validateOptions(opts cliOptions) error {
	if len(opts.args) != 1 {
		return fmt.Errorf("expected exactly one file argument, got %d", len(opts.args))
	}
	if opts.insert && opts.resolveAll {
		return fmt.Errorf("-insert and -resolve-all cannot be combined")
	}
	if !opts.resolveAll && len(opts.selections) == 0 {
		return fmt.Errorf("at least one -at selection is required")
	}
	if opts.write && opts.diff {
		return fmt.Errorf("-write and -diff cannot be combined")
	}
	if _, err := parseChoices(opts.choose); err != nil {
		return err
	}
	return nil
}

// regionList collects repeated -at flags.
type regionList []parser.Region

func (r *regionList) String() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(*r))
	for _, region := range *r {
		if region.Empty() {
			parts = append(parts, strconv.Itoa(region.Start))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%d", region.Start, region.End))
	}
	return strings.Join(parts, ",")
}

func (r *regionList) Set(value string) error {
	region, err := parseRegion(value)
	if err != nil {
		return err
	}
	*r = append(*r, region)
	return nil
}

func parseRegion(value string) (parser.Region, error) {
	startText, endText, ranged := strings.Cut(strings.TrimSpace(value), ":")
	start, err := strconv.Atoi(startText)
	if err != nil || start < 0 {
		return parser.Region{}, fmt.Errorf("invalid selection offset %q", value)
	}
	if !ranged {
		return parser.Region{Start: start, End: start}, nil
	}
	end, err := strconv.Atoi(endText)
	if err != nil || end < start {
		return parser.Region{}, fmt.Errorf("invalid selection end %q", value)
	}
	return parser.Region{Start: start, End: end}, nil
}

func parseChoices(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	choices := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < -1 {
			return nil, fmt.Errorf("invalid -choose entry %q", part)
		}
		choices = append(choices, n)
	}
	return choices, nil
}
