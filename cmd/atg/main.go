// Package main provides the atg command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anergictcell/atg/internal/pipeline"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts pipeline.Options
	var verbosity int

	cmd := &cobra.Command{
		Use:   "atg",
		Short: "Convert genomic transcript annotation between formats",
		Long: "atg converts transcript annotation between GTF, RefGene, GenePred and " +
			"several derived formats, extracts transcript sequences from a reference " +
			"genome and runs structural QC checks.",
		Example: `  atg -f gtf -t refgene -i gencode.gtf -o gencode.refgene
  atg -f refgene -t fasta --fasta-format cds -i ncbi.refgene -r hg38.fa -o cds.fa
  atg -f gtf -t qc -i gencode.gtf -r hg38.fa -c chrM:vertebrate_mitochondrial
  atg -f refgene -t gtf -i ncbi.refgene -q start -q stop -o clean.gtf`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbosity)
			if err != nil {
				return err
			}
			defer logger.Sync()

			applyConfigDefaults(cmd, &opts)

			runner := pipeline.NewRunner()
			runner.SetLogger(logger)
			return runner.Run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.From, "from", "f", "", "input format (gtf, refgene, genepred, genepredext, bin)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "",
		"output format (gtf, refgene, genepred, genepredext, bed, fasta, fasta-split, feature-sequence, spliceai, qc, bin, raw, none)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "input file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().StringVar(&opts.GtfSource, "gtf-source", "", "source column of GTF output")
	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "reference genome FASTA (faidx indexed)")
	cmd.Flags().StringVar(&opts.FastaFormat, "fasta-format", "cds", "FASTA sequence variant (cds, exons, transcript)")
	cmd.Flags().StringArrayVarP(&opts.GeneticCodes, "genetic-code", "c", nil,
		"genetic code, optionally per chromosome (e.g. chrM:vertebrate_mitochondrial); repeatable")
	cmd.Flags().StringArrayVarP(&opts.QCChecks, "qc-check", "q", nil,
		"drop transcripts failing the named QC check; repeatable")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")

	cobra.CheckErr(cmd.MarkFlagRequired("from"))
	cobra.CheckErr(cmd.MarkFlagRequired("to"))

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// applyConfigDefaults fills flags the user did not set from the config
// file values.
func applyConfigDefaults(cmd *cobra.Command, opts *pipeline.Options) {
	if !cmd.Flags().Changed("gtf-source") && viper.IsSet("gtf.source") {
		opts.GtfSource = viper.GetString("gtf.source")
	}
	if !cmd.Flags().Changed("genetic-code") && viper.IsSet("genetic_code") {
		opts.GeneticCodes = viper.GetStringSlice("genetic_code")
	}
	if !cmd.Flags().Changed("qc-check") && viper.IsSet("qc.checks") {
		opts.QCChecks = viper.GetStringSlice("qc.checks")
	}
}

// newLogger builds a stderr console logger; -v raises the level to
// info, -vv to debug.
func newLogger(verbosity int) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbosity == 1:
		level = zapcore.InfoLevel
	case verbosity >= 2:
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
