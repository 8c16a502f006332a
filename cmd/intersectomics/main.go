package main

import (
	"fmt"
	"os"
	"strings"

	"intersectomics/adapters/excel"
	"intersectomics/adapters/postgres"
	"intersectomics/app"
	"intersectomics/internal/config"
	"intersectomics/internal/ingest"
	"intersectomics/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for local runs; environment always wins.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "intersectomics",
		Short: "Multi-omics correlation-network analysis",
		Long: `intersectomics computes bootstrap Spearman correlations per omics layer,
builds significance-filtered graphs, intersects them into a consensus graph,
and partitions the consensus into communities.`,
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		layerSpecs   []string
		metadataPath string
		outPath      string
		filterCPM    bool
		minLogCPM    float64
		minFraction  float64
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over two or more omics layers",
		Long: `Run the full pipeline. Each --layer names one omics table; all layers
share one sample-metadata file whose rows label every sample with its
replicate-group key.

Example:
  intersectomics run \
    --layer transcripts=transcripts.csv \
    --layer proteins=proteins.csv \
    --metadata samples.csv \
    --seed 42 --out results.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, cfg, seed); err != nil {
				return err
			}
			if len(layerSpecs) < 2 {
				return fmt.Errorf("need at least two --layer arguments, got %d", len(layerSpecs))
			}
			if metadataPath == "" {
				return fmt.Errorf("--metadata is required")
			}

			metadata, err := ingest.ReadSampleMetadata(metadataPath)
			if err != nil {
				return err
			}

			layers := make([]app.LayerInput, 0, len(layerSpecs))
			for _, spec := range layerSpecs {
				name, path, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("invalid --layer %q, expected name=path", spec)
				}

				raw, err := ingest.NewDataReader(path).Read()
				if err != nil {
					return err
				}
				if filterCPM {
					before := len(raw.RowIDs)
					raw = ingest.FilterLowExpression(raw, minLogCPM, minFraction)
					fmt.Printf("layer %s: CPM filter kept %d of %d biomolecules\n", name, len(raw.RowIDs), before)
				}

				tbl, err := ingest.BuildTable(raw, metadata, cfg.Bootstrap.ReplicateLevel)
				if err != nil {
					return fmt.Errorf("layer %s: %w", name, err)
				}
				layers = append(layers, app.LayerInput{Name: name, Table: tbl})
			}

			var store ports.ResultsStore
			if cfg.Output.DatabaseURL != "" {
				repo, err := postgres.NewResultsRepository(cfg.Output.DatabaseURL)
				if err != nil {
					return err
				}
				defer repo.Close()
				if err := repo.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
				store = repo
			}

			svc := app.NewPipelineService(store)
			result, err := svc.Run(cmd.Context(), layers, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("run %s: consensus graph %d nodes, %d edges, %d communities\n",
				result.RunID, result.Consensus.NodeCount(), result.Consensus.EdgeCount(),
				result.Communities.CommunityCount())
			for label := 0; label < result.Communities.CommunityCount(); label++ {
				fmt.Printf("  community %d: %s\n", label, strings.Join(result.Communities.Members(label), ", "))
			}

			if outPath == "" {
				outPath = cfg.Output.WorkbookPath
			}
			if outPath != "" {
				if err := excel.NewExporter().Export(svc.Record(result, cfg), outPath); err != nil {
					return err
				}
				fmt.Printf("results written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&layerSpecs, "layer", nil, "omics layer as name=path (repeat per layer)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "sample metadata CSV/XLSX")
	cmd.Flags().StringVar(&outPath, "out", "", "write results workbook to this path")
	cmd.Flags().String("replicate-level", "", "metadata column naming the replicate group")
	cmd.Flags().Int("iterations", 0, "bootstrap iterations per pair")
	cmd.Flags().Int("workers", 0, "parallel workers")
	cmd.Flags().Int("chunk-size", 0, "pairs per worker chunk")
	cmd.Flags().Float64("alpha", 0, "significance cutoff")
	cmd.Flags().Float64("min-corr", -1, "minimum |correlation| for an edge")
	cmd.Flags().Float64("resolution", 0, "Louvain resolution")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "deterministic seed")
	cmd.Flags().BoolVar(&filterCPM, "filter-cpm", false, "drop low-expression rows before analysis")
	cmd.Flags().Float64Var(&minLogCPM, "min-log-cpm", 1.0, "log2(CPM+1) cutoff for the CPM filter")
	cmd.Flags().Float64Var(&minFraction, "min-expressed-fraction", 0.1, "fraction of samples that must pass the CPM cutoff")

	return cmd
}

// applyOverrides copies explicitly set flags over the env-derived config.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, seed uint64) error {
	flags := cmd.Flags()
	if flags.Changed("replicate-level") {
		cfg.Bootstrap.ReplicateLevel, _ = flags.GetString("replicate-level")
	}
	if flags.Changed("iterations") {
		cfg.Bootstrap.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("workers") {
		cfg.Bootstrap.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("chunk-size") {
		cfg.Bootstrap.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("alpha") {
		cfg.Graph.Alpha, _ = flags.GetFloat64("alpha")
	}
	if flags.Changed("min-corr") {
		cfg.Graph.MinCorrelation, _ = flags.GetFloat64("min-corr")
	}
	if flags.Changed("resolution") {
		cfg.Graph.Resolution, _ = flags.GetFloat64("resolution")
	}
	if flags.Changed("seed") {
		cfg.Bootstrap.Seed = &seed
	}
	return cfg.Validate()
}
