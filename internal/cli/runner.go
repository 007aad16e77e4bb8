package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/wt/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	ConfigPath string
	Driver     string // overrides storage.driver
	Dir        string // overrides storage.dir
	Theme      string
	Verbose    bool
}

// usageError marks bad invocations; Run maps it to exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())

	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
		return 2
	}
	return 1
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	opt := &Options{}
	root := &cobra.Command{
		Use:   "wt",
		Short: "wt - Work and Travel todos",
		Long: `wt keeps two todo lists, Work and Travel, in local storage.

Run without arguments to open the interactive list.`,
		Example: `  wt add "Buy milk"
  wt add --travel "Book flights to Lisbon"
  wt ls --all
  wt rm 2`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opt)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opt.ConfigPath, "config", "", "config file (default $WT_CONFIG or ~/.wt/config.yaml)")
	pf.StringVar(&opt.Driver, "driver", "", "storage driver: json, sqlite or memory")
	pf.StringVar(&opt.Dir, "dir", "", "data directory")
	pf.StringVar(&opt.Theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVarP(&opt.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAddCmd(opt),
		newListCmd(opt),
		newRemoveCmd(opt, stdin),
		newConfigCmd(opt),
	)
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}
