// smalireflect CLI - drives the native-invocation bridge outside an
// interpreter: reflect a single call, list the host classes, derive bindings
// for Go packages and inspect the failure journal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/smalireflect/config"
	"github.com/chazu/smalireflect/host"
	"github.com/chazu/smalireflect/host/javalang"
	"github.com/chazu/smalireflect/journal"
	"github.com/chazu/smalireflect/reflector"
)

var log = commonlog.GetLogger("smalireflect.cli")

// env is what every subcommand runs against.
type env struct {
	cfg      *config.Config
	registry *host.Registry
	journal  *journal.Journal
}

func (e *env) options() []reflector.Option {
	opts := []reflector.Option{reflector.WithRegistry(e.registry)}
	if e.journal != nil {
		opts = append(opts, reflector.WithJournal(e.journal))
	}
	return opts
}

func (e *env) close() {
	if e.journal == nil {
		return
	}
	if err := e.journal.Close(); err != nil {
		log.Errorf("Closing journal: %v", err)
	}
}

// newEnv loads the configuration found from dir and sets up logging, the
// class registry and, when configured, the journal.
func newEnv(dir string, verbosity int, withJournal bool) (*env, error) {
	cfg, err := config.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if verbosity >= 0 {
		cfg.Log.Verbosity = verbosity
	}
	cfg.ConfigureLogging()

	e := &env{cfg: cfg, registry: javalang.NewRegistry()}
	e.registry.SetPolicy(cfg.Policy())

	if p := cfg.JournalPath(); withJournal && p != "" {
		j, err := journal.Open(p)
		if err != nil {
			return nil, err
		}
		e.journal = j
		log.Debugf("Journaling failures to %s", p)
	}
	return e, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: smalireflect [options] <command> [args...]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  invoke [-static] <signature> [args...]   Reflect one call and print the register file\n")
	fmt.Fprintf(os.Stderr, "  classes [prefix]                         List host classes and their members\n")
	fmt.Fprintf(os.Stderr, "  bindings [-gen] [-o dir] [-only names] <import-path>\n")
	fmt.Fprintf(os.Stderr, "                                           Show or generate host bindings for a Go package\n")
	fmt.Fprintf(os.Stderr, "  journal [-summary] [-index db] [path]    Print or index recorded bridge failures\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  smalireflect invoke -static 'Ljava/lang/Math;->max(JJ)J' 3 9\n")
	fmt.Fprintf(os.Stderr, "  smalireflect invoke 'Ljava/lang/String;->length()I' hello\n")
	fmt.Fprintf(os.Stderr, "  smalireflect invoke 'Ljava/lang/StringBuilder;->append(I)Ljava/lang/StringBuilder;' new 42\n")
	fmt.Fprintf(os.Stderr, "  smalireflect bindings -gen -o ./bind strings\n")
}

func main() {
	verbosity := flag.Int("v", -1, "Log verbosity (overrides smalireflect.toml)")
	configDir := flag.String("config", ".", "Directory to search upwards for smalireflect.toml")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	e, err := newEnv(*configDir, *verbosity, cmd == "invoke")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = run(os.Stdout, e, cmd, args)
	e.close()

	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, e *env, cmd string, args []string) error {
	switch cmd {
	case "invoke":
		return runInvoke(w, e, args)
	case "classes":
		return runClasses(w, e, args)
	case "bindings":
		return runBindings(w, args)
	case "journal":
		return runJournal(w, e, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}
