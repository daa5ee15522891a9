package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/phpsym/internal/locator"
	"github.com/standardbeagle/phpsym/internal/reflection"
	"github.com/standardbeagle/phpsym/internal/types"
)

// ResolveReport is the JSON form of the resolve command
type ResolveReport struct {
	File        string               `json:"file"`
	Kind        string               `json:"kind"`
	Name        string               `json:"name"`
	Found       bool                 `json:"found"`
	Reflection  types.Reflection     `json:"reflection,omitempty"`
	Suggestions []locator.Suggestion `json:"suggestions,omitempty"`
}

// resolveCommand answers one lookup. A missing identifier exits with status 1.
func resolveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("resolve requires exactly one FILE argument")
	}
	id, err := identifierFromFlags(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, "")
	if err != nil {
		return err
	}

	r, err := newFileResolver(cfg, locator.NewBuilderFromConfig(cfg), c.Args().First())
	if err != nil {
		return err
	}
	defer r.Close()

	refl, err := r.Resolve(id)
	if err != nil {
		return err
	}

	report := ResolveReport{
		File:       r.Source().Path(),
		Kind:       id.Kind.String(),
		Name:       id.Name,
		Found:      refl != nil,
		Reflection: refl,
	}
	if refl == nil {
		if report.Suggestions, err = r.Suggest(id); err != nil {
			return err
		}
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(data))
	} else {
		printResolveReport(c.App.Writer, report)
	}

	if !report.Found {
		return cli.Exit("", 1)
	}
	return nil
}

func printResolveReport(w io.Writer, report ResolveReport) {
	if !report.Found {
		fmt.Fprintf(w, "%s %s: not found in %s\n", report.Kind, report.Name, report.File)
		if len(report.Suggestions) > 0 {
			fmt.Fprintln(w, "did you mean:")
			for _, s := range report.Suggestions {
				fmt.Fprintf(w, "  %s\n", s.Name)
			}
		}
		return
	}

	fmt.Fprintf(w, "%s %s\n", report.Kind, report.Reflection.Name())
	switch refl := report.Reflection.(type) {
	case *reflection.ClassReflection:
		fmt.Fprintf(w, "  kind:     %s\n", refl.ClassKind)
		if len(refl.Modifiers) > 0 {
			fmt.Fprintf(w, "  modifiers: %v\n", refl.Modifiers)
		}
		if refl.Parent != "" {
			fmt.Fprintf(w, "  extends:  %s\n", refl.Parent)
		}
		if len(refl.Interfaces) > 0 {
			fmt.Fprintf(w, "  implements: %v\n", refl.Interfaces)
		}
		fmt.Fprintf(w, "  location: %s:%d-%d\n", report.File, refl.Location.StartLine, refl.Location.EndLine)
	case *reflection.FunctionReflection:
		for _, p := range refl.Parameters {
			fmt.Fprintf(w, "  param:    $%s %s\n", p.Name, p.Type)
		}
		if refl.ReturnType != "" {
			fmt.Fprintf(w, "  returns:  %s\n", refl.ReturnType)
		}
		fmt.Fprintf(w, "  location: %s:%d-%d\n", report.File, refl.Location.StartLine, refl.Location.EndLine)
	case *reflection.ConstantReflection:
		fmt.Fprintf(w, "  value:    %s\n", refl.Value)
		if refl.ViaDefine {
			fmt.Fprintln(w, "  defined:  define()")
		}
		fmt.Fprintf(w, "  location: %s:%d\n", report.File, refl.Location.StartLine)
	}
}
