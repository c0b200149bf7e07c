package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-laudo-comparator/internal/config"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/logger"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/stats"
)

var (
	// stats 命令的标志
	recentLimit    int
	parameterLimit int
	exportPath     string
	resetStats     bool
	assumeYes      bool
)

// NewStatsCommand 创建 stats 命令
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "View comparison statistics",
		Long: `View statistics about previous laudo comparisons, including:
- Overall comparison and verdict totals
- Per legislation statistics
- Parameters most often out of limits
- Recent comparison history

Examples:
  # Show overview of all statistics
  laudos stats

  # Show the 20 most recent comparisons
  laudos stats --recent 20

  # Export statistics to JSON
  laudos stats --export stats.json

  # Reset all statistics
  laudos stats --reset`,
		Args: cobra.NoArgs,
		RunE: runStatsCommand,
	}

	// 添加标志
	statsCmd.Flags().IntVar(&recentLimit, "recent", 10, "Number of recent comparisons to show")
	statsCmd.Flags().IntVar(&parameterLimit, "parameters", 10, "Number of parameters to show")
	statsCmd.Flags().StringVar(&exportPath, "export", "", "Export statistics to file (JSON format)")
	statsCmd.Flags().BoolVar(&resetStats, "reset", false, "Reset all statistics (requires confirmation)")
	statsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	return statsCmd
}

// runStatsCommand 执行 stats 命令
func runStatsCommand(cmd *cobra.Command, args []string) error {
	// 初始化日志
	log := logger.NewLoggerWithVerbose(debugMode, verboseMode)
	defer func() {
		_ = log.Sync()
	}()

	// 加载配置
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.NewDefaultConfig()
	}

	// 创建统计数据库
	db, err := stats.NewDatabase(cfg.StatsFile, log)
	if err != nil {
		return fmt.Errorf("failed to initialize statistics database: %w", err)
	}

	// 处理重置选项
	if resetStats {
		return handleStatsReset(cmd, db, log)
	}

	// 处理导出选项
	if exportPath != "" {
		if err := db.Export(exportPath); err != nil {
			return fmt.Errorf("failed to export statistics: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Statistics exported to: %s\n", exportPath)
		return nil
	}

	visualizer := stats.NewVisualizer(db, cmd.OutOrStdout())
	visualizer.ShowOverview()

	fmt.Fprintln(cmd.OutOrStdout())
	visualizer.ShowLegislations()

	fmt.Fprintln(cmd.OutOrStdout())
	visualizer.ShowParameters(parameterLimit)

	fmt.Fprintln(cmd.OutOrStdout())
	visualizer.ShowRecentComparisons(recentLimit)

	return nil
}

// handleStatsReset 处理统计重置
func handleStatsReset(cmd *cobra.Command, db *stats.Database, log *zap.Logger) error {
	out := cmd.OutOrStdout()

	if !assumeYes {
		fmt.Fprint(out, "Are you sure you want to reset all statistics? This cannot be undone. (y/N): ")

		confirmation, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		confirmation = strings.ToLower(strings.TrimSpace(confirmation))
		if confirmation != "y" && confirmation != "yes" {
			fmt.Fprintln(out, "Statistics reset cancelled.")
			return nil
		}
	}

	if err := db.Reset(); err != nil {
		return fmt.Errorf("failed to reset statistics: %w", err)
	}

	fmt.Fprintln(out, "✅ Statistics have been reset.")
	log.Info("statistics reset", zap.String("path", db.Path()))

	return nil
}
