// palette-view resolves one palette of a project against its selected ancestors,
// prints the dependency tree and merged entries, and optionally exports the result
// or opens an interactive preview.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/vi-palette/palette"
	"github.com/lixenwraith/vi-palette/project"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\npalette-view crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	project     string
	paletteID   string
	selects     []string
	export      string
	resolved    bool
	interactive bool
	debug       bool
	library     string
	dedupe      bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	flagSet := pflag.NewFlagSet("palette-view", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVarP(&o.project, "project", "p", "", "project file (default: "+project.DefaultProjectPath+", then the built-in sample)")
	flagSet.StringVar(&o.paletteID, "palette", "", "palette to resolve (default: last palette of the project)")
	flagSet.StringArrayVarP(&o.selects, "select", "s", nil, "switch choices of one palette as ID=I,J (repeatable)")
	flagSet.StringVarP(&o.export, "export", "o", "", "write the project to FILE; the extension picks the format")
	flagSet.BoolVar(&o.resolved, "resolved", false, "export the resolved palette instead of the raw project")
	flagSet.BoolVarP(&o.interactive, "interactive", "i", false, "open the interactive preview")
	flagSet.BoolVar(&o.debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	flagSet.StringVar(&o.library, "library", "", "project whose palettes fill in missing ancestors")
	flagSet.BoolVar(&o.dedupe, "dedupe", false, "merge each ancestor once even when several paths reach it")

	if err := flagSet.Parse(args); err != nil {
		return o, err
	}
	if flagSet.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if o.resolved && o.export == "" {
		return o, errors.New("--resolved requires --export")
	}
	return o, nil
}

func run(args []string, out io.Writer) error {
	o, err := parseFlags(args, out)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if logFile := setupLogging(o.debug); logFile != nil {
		defer logFile.Close()
	}

	reg, src, err := project.LoadAuto(o.project)
	if err != nil {
		return err
	}
	log.Printf("loaded %d palettes from %s", reg.Len(), src)

	root, err := pickRoot(reg, o.paletteID)
	if err != nil {
		return err
	}

	if o.library != "" {
		lib, err := project.LoadFile(o.library)
		if err != nil {
			return fmt.Errorf("load library: %w", err)
		}
		if imported := project.ImportMissing(reg, root, lib); len(imported) > 0 {
			log.Printf("imported %v from %s", imported, o.library)
			fmt.Fprintf(out, "imported: %s\n\n", strings.Join(imported, ", "))
		}
	}

	sel, err := parseSelections(reg, o.selects)
	if err != nil {
		return err
	}

	var viewOpts []palette.ViewOption
	if o.dedupe {
		viewOpts = append(viewOpts, palette.DedupeSources())
	}
	v := palette.Resolve(reg, root, sel, viewOpts...)

	printTree(out, palette.DependencyTree(reg, root, sel))
	fmt.Fprintln(out)
	printEntries(out, v)

	if o.export != "" {
		doc := project.Export(reg)
		if o.resolved {
			doc = project.ExportResolved(v, root.Identifier()+"_resolved")
		}
		if err := project.SaveFile(o.export, doc); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nexported %s\n", o.export)
	}

	if o.interactive {
		return runInteractive(reg, root, sel, viewOpts)
	}
	return nil
}

// pickRoot finds the palette to resolve; an empty id picks the last one in the project
func pickRoot(reg *palette.Registry, id string) (*palette.Palette, error) {
	if id == "" {
		all := reg.All()
		if len(all) == 0 {
			return nil, errors.New("project has no palettes")
		}
		return all[len(all)-1], nil
	}
	p := reg.FindByString(id)
	if p == nil {
		return nil, fmt.Errorf("palette %q not found", id)
	}
	return p, nil
}

// parseSelections turns ID=I,J flags into a selection; the n-th number picks the option of switch n
func parseSelections(reg *palette.Registry, args []string) (palette.Selection, error) {
	sel := palette.Selection{}
	for _, arg := range args {
		id, list, ok := strings.Cut(arg, "=")
		if !ok || id == "" || list == "" {
			return nil, fmt.Errorf("invalid selection %q: want ID=I,J", arg)
		}
		p := reg.FindByString(id)
		if p == nil {
			return nil, fmt.Errorf("invalid selection %q: palette %q not found", arg, id)
		}
		for i, s := range strings.Split(list, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("invalid selection %q: %w", arg, err)
			}
			sel.Set(p.UUID, i, n)
		}
	}
	return sel, nil
}
