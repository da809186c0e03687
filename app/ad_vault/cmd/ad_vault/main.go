package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/ad_vault/app/ad_vault/internal/tui"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/engine"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
)

var (
	configPath string
	credential string
)

var rootCmd = &cobra.Command{
	Use:   "ad_vault",
	Short: "AI-assisted competitor ad research dashboard",
	Long: `ad_vault generates search strategies for a brand, pulls matching ads
from Foreplay (or a built-in demo dataset) and lets you save a selection.

Run without arguments to start the terminal dashboard.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal dashboard",
	RunE:  runTUI,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Generate search strategies for the configured brand",
	RunE:  runStrategies,
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search ads for a single term",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&credential, "credential", "", "Foreplay API key (or set FOREPLAY_API_KEY env)")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup 加载配置、初始化日志并创建引擎
func setup(ctx context.Context, stdout io.Writer) (*engine.Engine, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if credential != "" {
		cfg.Search.Foreplay.APIKey = credential
	}

	if err := logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Stdout:     stdout,
	}); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}

	return engine.NewEngine(ctx, cfg)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	// 终端界面占用标准输出，日志只写文件
	eng, err := setup(ctx, io.Discard)
	if err != nil {
		return err
	}
	defer eng.Close()

	logger.Log.Info("启动 ad_vault 终端界面...")
	return tui.Run(eng)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	eng, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer eng.Close()

	res, err := eng.GenerateStrategies(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Brand: %s\n", eng.Brand().Name)
	if res.Fallback {
		fmt.Fprintln(out, "(fallback strategies)")
	}
	for i, q := range res.Queries {
		fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, q.Term, q.Rationale)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	eng, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer eng.Close()

	term := strings.Join(args, " ")
	ads := eng.Search(ctx, term, eng.Store().Snapshot().Credential)

	out := cmd.OutOrStdout()
	if len(ads) == 0 {
		fmt.Fprintln(out, "No ads found for this query.")
		return nil
	}
	for _, ad := range ads {
		title := ad.Title
		if title == "" {
			title = ad.BrandName
		}
		fmt.Fprintf(out, "%-12s %-9s %s\n", ad.ID, ad.DisplayFormat, title)
	}
	return nil
}
