package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/phpsym/internal/locator"
)

// IndexReport is the JSON form of the index command
type IndexReport struct {
	File            string   `json:"file"`
	Hash            string   `json:"hash"`
	Namespaces      int      `json:"namespaces"`
	Classes         []string `json:"classes"`
	Functions       []string `json:"functions"`
	ConstStatements int      `json:"const_statements"`
	DefineCalls     int      `json:"define_calls"`
	Duplicates      int      `json:"duplicates"`
	BuildDurationMs float64  `json:"build_duration_ms"`
}

func newIndexReport(snap *locator.Snapshot) IndexReport {
	stats := snap.Stats()
	report := IndexReport{
		File:            snap.Source().Path(),
		Hash:            fmt.Sprintf("%016x", snap.Source().FastHash()),
		Namespaces:      stats.Namespaces,
		Classes:         []string{},
		Functions:       []string{},
		ConstStatements: stats.ConstStatements,
		DefineCalls:     stats.DefineCalls,
		Duplicates:      stats.DuplicateClasses + stats.DuplicateFunctions,
		BuildDurationMs: float64(stats.BuildDuration.Microseconds()) / 1000,
	}
	for _, nodes := range snap.Classes() {
		report.Classes = append(report.Classes, nodes[0].Name)
	}
	for _, node := range snap.Functions() {
		report.Functions = append(report.Functions, node.Name)
	}
	return report
}

// indexCommand builds the snapshot of one file and summarizes it
func indexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("index requires exactly one FILE argument")
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

	snap, err := r.Snapshot()
	if err != nil {
		return err
	}
	report := newIndexReport(snap)

	w := c.App.Writer
	if c.Bool("json") {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintf(w, "%s (%s)\n", report.File, report.Hash)
	fmt.Fprintf(w, "  namespaces:       %d\n", report.Namespaces)
	fmt.Fprintf(w, "  classes:          %d\n", len(report.Classes))
	for _, name := range report.Classes {
		fmt.Fprintf(w, "    %s\n", name)
	}
	fmt.Fprintf(w, "  functions:        %d\n", len(report.Functions))
	for _, name := range report.Functions {
		fmt.Fprintf(w, "    %s\n", name)
	}
	fmt.Fprintf(w, "  const statements: %d\n", report.ConstStatements)
	fmt.Fprintf(w, "  define calls:     %d\n", report.DefineCalls)
	if report.Duplicates > 0 {
		fmt.Fprintf(w, "  duplicates:       %d\n", report.Duplicates)
	}
	fmt.Fprintf(w, "  built in %.2fms\n", report.BuildDurationMs)
	return nil
}
