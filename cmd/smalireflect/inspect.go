package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/smalireflect/bindgen"
	"github.com/chazu/smalireflect/journal"
)

// runClasses lists the registered classes, optionally only those whose
// binary name starts with a prefix. Classes the policy denies are marked.
func runClasses(w io.Writer, e *env, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	policy := e.registry.Policy()
	for _, c := range e.registry.Classes() {
		if !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		if policy.Allows(c.Name) {
			fmt.Fprintln(w, c.Name)
		} else {
			fmt.Fprintf(w, "%s (denied)\n", c.Name)
		}
		for _, m := range c.Members() {
			fmt.Fprintf(w, "  %-11s %s\n", m.Kind, m)
		}
	}
	return nil
}

// runBindings handles `smalireflect bindings`.
// Usage:
//
//	smalireflect bindings strings                 # list bindable members
//	smalireflect bindings -only Contains strings  # restrict to some names
//	smalireflect bindings -gen strings            # print generated glue
//	smalireflect bindings -gen -o ./bind strings  # write ./bind/bind_strings/bind.go
func runBindings(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("bindings", flag.ContinueOnError)
	gen := fs.Bool("gen", false, "Generate Go registration code")
	outputDir := fs.String("o", "", "Output directory for generated code")
	only := fs.String("only", "", "Comma-separated exported names to include")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("bindings: missing import path")
	}

	var filter map[string]bool
	if *only != "" {
		filter = make(map[string]bool)
		for _, name := range strings.Split(*only, ",") {
			filter[strings.TrimSpace(name)] = true
		}
	}

	for _, path := range fs.Args() {
		model, err := bindgen.Introspect(path, filter)
		if err != nil {
			return fmt.Errorf("introspecting: %w", err)
		}
		bs := bindgen.Bind(model)
		log.Infof("%s: %d binding(s), %d skipped", path, len(bs.Bindings), len(bs.Skipped))

		if !*gen {
			printBindings(w, bs)
			continue
		}
		code, err := bindgen.Generate(bs)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if *outputDir == "" {
			fmt.Fprint(w, code)
			continue
		}
		pkgDir := filepath.Join(*outputDir, bindgen.GeneratedPackageName(model))
		if err := os.MkdirAll(pkgDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		goPath := filepath.Join(pkgDir, "bind.go")
		if err := os.WriteFile(goPath, []byte(code), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", goPath, err)
		}
		fmt.Fprintf(w, "Wrote %s\n", goPath)
	}
	return nil
}

func printBindings(w io.Writer, bs *bindgen.BindingSet) {
	for _, b := range bs.Bindings {
		fmt.Fprintf(w, "%-11s %s\n", b.Kind, b.Signature)
	}
	for _, s := range bs.Skipped {
		fmt.Fprintf(w, "skipped     %s: %s\n", s.Name, s.Reason)
	}
}

// runJournal prints the records in a failure journal. The path defaults to
// the configured journal.
func runJournal(w io.Writer, e *env, args []string) error {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	summary := fs.Bool("summary", false, "Print counts per failure category")
	indexPath := fs.String("index", "", "Import the records into this SQLite index and print the most failing signatures")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := e.cfg.JournalPath()
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		return fmt.Errorf("journal: no path given and none configured")
	}

	records, err := journal.ReadFile(path)
	if err != nil && len(records) == 0 {
		return err
	}
	if err != nil {
		log.Warningf("Journal %s is damaged: %v", path, err)
	}

	if *indexPath != "" {
		return indexJournal(w, *indexPath, records)
	}
	if !*summary {
		for _, r := range records {
			fmt.Fprintln(w, r)
		}
		return nil
	}

	counts := journal.Summarize(records)
	cats := make([]journal.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		fmt.Fprintf(w, "%-17s %d\n", c, counts[c])
	}
	fmt.Fprintf(w, "%-17s %d\n", "total", len(records))
	return nil
}

func indexJournal(w io.Writer, path string, records []journal.Record) error {
	ix, err := journal.OpenIndex(path)
	if err != nil {
		return err
	}
	defer ix.Close()

	added, err := ix.Import(records)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Indexed %d new record(s) into %s\n", added, path)

	top, err := ix.TopSignatures(10)
	if err != nil {
		return err
	}
	for _, sc := range top {
		fmt.Fprintf(w, "%6d  %s\n", sc.Count, sc.Signature)
	}
	return nil
}
