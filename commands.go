package main

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/tabvc/tabvc/internal/config"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type applyOptions struct {
	in      string
	ops     string
	out     string
	message string
}

var applyOpts applyOptions

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply an operation list to a local workbook and write the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(applyOpts, cmd.OutOrStdout())
	},
}

var parseSheet string

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Translate a natural-language request into operations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		tr, err := translator.New(&translator.Config{
			BaseURL: cfg.Translator.BaseURL,
			Model:   cfg.Translator.Model,
			APIKey:  cfg.Translator.APIKey,
			Timeout: cfg.Translator.Timeout,
		})
		if err != nil {
			return err
		}
		eng, err := engine.New(&engine.Config{Store: storage.New(), Translator: tr})
		if err != nil {
			return err
		}

		res, err := eng.Parse(cmd.Context(), strings.Join(args, " "), parseSheet)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyOpts.in, "in", "", "workbook to read (xlsx, csv, optionally compressed)")
	applyCmd.Flags().StringVar(&applyOpts.ops, "ops", "", "JSON file holding an operation array")
	applyCmd.Flags().StringVar(&applyOpts.out, "out", "", "file to write; .csv exports the first sheet")
	applyCmd.Flags().StringVar(&applyOpts.message, "message", "", "commit message")
	_ = applyCmd.MarkFlagRequired("in")
	_ = applyCmd.MarkFlagRequired("ops")
	_ = applyCmd.MarkFlagRequired("out")

	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "sheet used when the request names none")
}

// runApply loads a workbook, applies one batch, commits and exports, all in memory. The commit
// summary and any analysis are printed as JSON.
func runApply(opts applyOptions, stdout io.Writer) error {
	data, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}
	rawOps, err := os.ReadFile(opts.ops)
	if err != nil {
		return fmt.Errorf("failed to read operations: %w", err)
	}
	ops, err := operations.DecodeList(rawOps)
	if err != nil {
		return err
	}

	eng, err := engine.New(&engine.Config{Store: storage.New()})
	if err != nil {
		return err
	}
	session := eng.CreateSession("cli")
	filename := filepath.Base(opts.in)
	if _, err := eng.UploadWorkbook(session.ID, filename, data); err != nil {
		return err
	}

	res, err := eng.ApplyOperations(session.ID, filename, opts.message, ops)
	if err != nil {
		return err
	}

	format := engine.FormatXLSX
	if strings.EqualFold(filepath.Ext(opts.out), ".csv") {
		format = engine.FormatCSV
	}
	out, err := eng.Export(session.ID, filename, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, out.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	return printJSON(stdout, res)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
