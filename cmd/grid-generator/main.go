package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wcatz/grid-generator/internal/config"
	"github.com/wcatz/grid-generator/internal/generator"
	"github.com/wcatz/grid-generator/internal/palette"
	"github.com/wcatz/grid-generator/internal/preview"
	"github.com/wcatz/grid-generator/internal/server"
	"github.com/wcatz/grid-generator/internal/store"
)

var (
	cfgFile      string
	profile      string
	outputDir    string
	dryRun       bool
	verbose      bool
	servePort    int
	serveLayout  string
	dbPath       string
	previewWidth int
	exportOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "grid-generator",
		Short:         "config-driven CSS grid layout generator",
		SilenceUsage: true,
	}

	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate CSS, HTML and Tailwind code from YAML config",
		RunE:  runGenerate,
	}
	genCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	genCmd.Flags().StringVar(&profile, "profile", "", "generate only layouts in named profile")
	genCmd.Flags().StringVar(&outputDir, "output-dir", "", "override output directory")
	genCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate to memory only")
	genCmd.Flags().BoolVar(&verbose, "verbose", false, "print item placements")
	genCmd.MarkFlagRequired("config")

	previewCmd := &cobra.Command{
		Use:   "preview [layout...]",
		Short: "draw layouts in the terminal",
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	previewCmd.Flags().StringVar(&profile, "profile", "", "preview only layouts in named profile")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "drawing width (default: terminal width)")
	previewCmd.MarkFlagRequired("config")

	validateCmd := &cobra.Command{
		Use:   "validate [layout.json...]",
		Short: "validate the YAML config and any JSON layout documents",
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the web UI server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	serveCmd.Flags().StringVar(&serveLayout, "layout", "", "layout to start editing")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP server port")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "snapshot database path (default ~/"+store.DefaultPath+")")
	serveCmd.Flags().BoolVar(&verbose, "verbose", false, "log gesture decisions")
	serveCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(genCmd, previewCmd, validateCmd, serveCmd, snapshotsCommand(), paletteCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func snapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "manage saved layout snapshots",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot database path (default ~/"+store.DefaultPath+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotsList,
	}
	exportCmd := &cobra.Command{
		Use:   "export <name>",
		Short: "write a snapshot as a JSON layout document",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotsExport,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	importCmd := &cobra.Command{
		Use:   "import <name> <layout.json>",
		Short: "save a JSON layout document as a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE:  runSnapshotsImport,
	}
	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotsDelete,
	}
	cmd.AddCommand(listCmd, exportCmd, importCmd, deleteCmd)
	return cmd
}

func paletteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "edit palettes in the YAML config",
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	cmd.MarkPersistentFlagRequired("config")

	setCmd := &cobra.Command{
		Use:   "set <palette> <name> <hex>",
		Short: "add or change a palette colour",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hex, err := palette.Normalize(args[2])
			if err != nil {
				return err
			}
			if err := config.NewYAMLEditor(cfgFile).SetPaletteColor(args[0], args[1], hex); err != nil {
				return err
			}
			fmt.Printf("  %s.%s = %s\n", args[0], args[1], hex)
			return nil
		},
	}
	useCmd := &cobra.Command{
		Use:   "use <palette>",
		Short: "set the active palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Palettes[args[0]]; !ok {
				return fmt.Errorf("palette '%s' not defined in config", args[0])
			}
			if err := config.NewYAMLEditor(cfgFile).SetActivePalette(args[0]); err != nil {
				return err
			}
			fmt.Printf("  active palette: %s\n", args[0])
			return nil
		},
	}
	cmd.AddCommand(setCmd, useCmd)
	return cmd
}

func loadConfig() (*config.Config, error) {
	cliArgs := make(map[string]string)
	if outputDir != "" {
		cliArgs["output_dir"] = outputDir
	}
	return config.Load(cfgFile, cliArgs)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return generateLayouts(cfg)
}

func generateLayouts(cfg *config.Config) error {
	gen := cfg.GetGenerator()

	outDir := gen.OutputDir
	if !filepath.IsAbs(outDir) {
		configDir := filepath.Dir(cfgFile)
		absConfig, err := filepath.Abs(configDir)
		if err != nil {
			return err
		}
		outDir = filepath.Join(absConfig, outDir)
	}

	order, err := layoutOrder(cfg)
	if err != nil {
		return err
	}
	builder, err := generator.NewLayoutBuilder(cfg)
	if err != nil {
		return err
	}

	totalSize := 0
	totalItems := 0
	fmt.Println("grid layout generator:")

	for _, name := range order {
		snap, err := builder.Build(name)
		if err != nil {
			return fmt.Errorf("building layout '%s': %w", name, err)
		}

		filename := cfg.Layouts[name].Filename
		if filename == "" {
			filename = name
		}
		code := generator.GenerateCode(snap, gen.ClassPrefix)
		size, err := generator.WriteCode(code, len(snap.Items), outDir, filename, gen.Formats, dryRun)
		if err != nil {
			return err
		}
		totalSize += size
		totalItems += len(snap.Items)

		if verbose {
			for _, it := range snap.Items {
				fmt.Printf("    [%s] %s / %s %s\n", it.ID, it.GridColumn(), it.GridRow(), it.Color)
			}
		}
	}

	fmt.Printf("\n  total: %d layouts, %d items, %s bytes\n", len(order), totalItems, formatTotalSize(totalSize))
	return nil
}

// layoutOrder returns the layouts to process: the profile's (or the file's)
// order first, then any stragglers sorted by name.
func layoutOrder(cfg *config.Config) ([]string, error) {
	layouts, err := cfg.GetLayouts(profile)
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts defined in config")
	}
	order, err := cfg.GetLayoutOrder(profile)
	if err != nil {
		return nil, err
	}

	var filtered []string
	seen := make(map[string]bool)
	for _, name := range order {
		if _, ok := layouts[name]; ok && !seen[name] {
			filtered = append(filtered, name)
			seen[name] = true
		}
	}
	var remaining []string
	for name := range layouts {
		if !seen[name] {
			remaining = append(remaining, name)
		}
	}
	sort.Strings(remaining)
	return append(filtered, remaining...), nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		if names, err = layoutOrder(cfg); err != nil {
			return err
		}
	}
	builder, err := generator.NewLayoutBuilder(cfg)
	if err != nil {
		return err
	}

	width := previewWidth
	if width <= 0 {
		width = preview.TerminalWidth()
	}
	for i, name := range names {
		snap, err := builder.Build(name)
		if err != nil {
			return err
		}
		title := cfg.Layouts[name].Title
		if title == "" {
			title = name
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(preview.Render(title, snap, width))
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if cfgFile == "" && len(args) == 0 {
		return fmt.Errorf("nothing to validate: pass --config or layout documents")
	}

	failed := 0
	if cfgFile != "" {
		if err := validateConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", cfgFile, err)
			failed++
		} else {
			fmt.Printf("  %s: ok\n", cfgFile)
		}
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = config.DecodeDocument(data)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("  %s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed validation", failed)
	}
	return nil
}

// validateConfig loads the config and builds every layout, so placement
// failures are caught as well as syntax.
func validateConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	builder, err := generator.NewLayoutBuilder(cfg)
	if err != nil {
		return err
	}
	for name := range cfg.Layouts {
		if _, err := builder.Build(name); err != nil {
			return err
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	repo, err := store.NewSQLiteSnapshotRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	srv, err := server.New(cfgFile, serveLayout, server.WithRepository(repo), server.WithLogger(logger))
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", servePort)
	return srv.ListenAndServe(addr)
}

func openStore() (*store.SQLiteSnapshotRepository, error) {
	return store.NewSQLiteSnapshotRepository(dbPath)
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	infos, err := repo.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("  no snapshots")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("  %-24s %dx%d  %d items  %s\n",
			info.Name, info.Columns, info.Rows, info.Items, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSnapshotsExport(cmd *cobra.Command, args []string) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	snap, err := repo.Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "  %s: %d items, %s bytes\n", exportOut, len(snap.Items), formatTotalSize(len(data)))
	return nil
}

func runSnapshotsImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	snap, err := config.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Save(args[0], snap); err != nil {
		return err
	}
	fmt.Printf("  saved %s: %d items\n", args[0], len(snap.Items))
	return nil
}

func runSnapshotsDelete(cmd *cobra.Command, args []string) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("  deleted %s\n", strings.TrimSpace(args[0]))
	return nil
}

func formatTotalSize(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
