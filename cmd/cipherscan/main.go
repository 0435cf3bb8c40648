package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"CipherScan/pkg/config"
	"CipherScan/pkg/theme"
	"CipherScan/pkg/workbench"
)

const (
	appName    = "cipherscan"
	appVersion = "1.0.0"
	envPrefix  = "CIPHERSCAN"
)

// errReported marks a failure that was already printed
var errReported = errors.New("reported")

// app holds the state shared by every subcommand once root flags are parsed
type app struct {
	configPath string
	themeName  string
	verbose    bool
	noColor    bool

	conf config.Config
	wb   *workbench.Workbench
	out  *console
}

func main() {
	a := &app{}

	rootFlags := flag.NewFlagSet(appName, flag.ExitOnError)
	rootFlags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootFlags.StringVar(&a.themeName, "theme", "day", "Output theme (day or night)")
	rootFlags.BoolVar(&a.verbose, "verbose", false, "Enable verbose output")
	rootFlags.BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	root := &ffcli.Command{
		Name:       appName,
		ShortUsage: appName + " [global flags] <subcommand> [flags] <file>",
		ShortHelp:  "Look for text hidden in images, PDFs and WAV files",
		FlagSet:    rootFlags,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Subcommands: []*ffcli.Command{
			a.imageCommand(),
			a.hiddenCommand(),
			a.pdfCommand(),
			a.pdfCleanCommand(),
			a.watermarkCommand(),
			a.audioCommand(),
			a.scanCommand(),
			a.formatsCommand(),
			a.serveCommand(),
			a.configCommand(),
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ParseAndRun(ctx, os.Args[1:])
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, errReported):
		os.Exit(1)
	default:
		if a.out != nil {
			a.out.errorf("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and builds the workbench and console
func (a *app) setup(banner bool) error {
	mode, err := theme.ParseMode(a.themeName)
	if err != nil {
		return err
	}
	if a.noColor {
		color.NoColor = true
	}
	a.out = newConsole(theme.NewPalette(mode, color.Output), a.verbose)

	conf, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.conf = conf

	if banner {
		a.out.banner()
	}
	return nil
}

func (a *app) workbench() *workbench.Workbench {
	if a.wb == nil {
		a.wb = workbench.New(a.conf)
	}
	return a.wb
}

// report prints an outcome and turns a failed one into errReported
func (a *app) report(out workbench.Outcome) error {
	a.out.outcome(out)
	if out.Failed() {
		return errReported
	}
	return nil
}

// fileArg returns the single file argument, or "" when none was given
func fileArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("expected one file, got %d arguments", len(args))
}

// flagsSet reports which flags were given on the command line or through the environment
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(appName+" "+name, flag.ExitOnError)
}

func envOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix(envPrefix)}
}
