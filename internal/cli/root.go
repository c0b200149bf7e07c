package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-laudo-comparator/internal/config"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/document"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/export"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/logger"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/stats"
	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

var (
	// 命令行标志变量
	cfgFile          string
	legislationName  string
	legislationsFile string
	outputFormat     string
	outputFile       string
	debugMode        bool
	verboseMode      bool // 显示详细日志
	showSkipped      bool // 输出被跳过的行和未识别的参数
	listLegislations bool
	noStats          bool
	noColor          bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "laudos [flags] laudo1 laudo2",
		Short: "比对两份污水处理站的分析报告（入水和出水）",
		Long: `比对两份污水处理站的分析报告（入水和出水），按法规判定每个参数是否合规。

工具从 PDF 或文本报告中提取测量结果，按 (参数, 单位) 合并两份报告，
用出水（Saída）列的数值对照法规限值，并追加 DBO/DQO 去除效率行。

内置法规:
  - DN COPAM (MG)
  - CONAMA 430/2011

输出格式:
  - table: 终端表格（默认）
  - csv, json, xlsx: 写入文件，默认文件名 comparativo_laudos.<格式>`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			// 列出法规不需要参数
			if listLegislations {
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("%w: expected the entrada and saída laudos, received %d file(s)",
					laudo.ErrDocumentCount, len(args))
			}
			return nil
		},
		RunE: runCompare,
	}

	// 添加全局标志
	addGlobalFlags(rootCmd)

	// 比对相关标志
	rootCmd.Flags().StringVarP(&legislationName, "legislation", "l", "", "使用的法规名称")
	rootCmd.Flags().StringVar(&legislationsFile, "legislations-file", "", "自定义法规 TOML 文件路径")
	rootCmd.Flags().StringVar(&outputFormat, "format", "", "输出格式 (table, csv, json, xlsx)，未指定时按 -o 的扩展名推断")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "输出文件路径")
	rootCmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "显示被跳过的行和未识别的参数")
	rootCmd.Flags().BoolVar(&listLegislations, "list-legislations", false, "列出可用的法规")
	rootCmd.Flags().BoolVar(&noStats, "no-stats", false, "不记录本次比对的统计")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "禁用终端颜色")

	// 添加子命令
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}

// addGlobalFlags 添加全局标志
func addGlobalFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试模式")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "显示详细日志（包括每页提取的行数）")
}

// runCompare 执行比对
func runCompare(cmd *cobra.Command, args []string) error {
	// 初始化临时日志（用于加载配置）
	tempLog := logger.NewLoggerWithVerbose(debugMode, verboseMode)
	defer func() {
		_ = tempLog.Sync()
	}()

	// 加载配置
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		tempLog.Error("加载配置失败", zap.Error(err))
		return err
	}

	// 使用命令行参数覆盖配置
	updateConfigFromFlags(cmd, cfg)

	log := logger.NewLoggerWithLevel(cfg.LogLevel, cfg.Debug, cfg.Verbose)
	defer func() {
		_ = log.Sync()
	}()

	catalogue, err := loadCatalogue(cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listLegislations {
		printLegislations(out, catalogue, cfg.Legislation)
		return nil
	}

	leg, err := catalogue.Get(cfg.Legislation)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, catalogue.Names())
	}

	format, err := export.ResolveFormat(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return err
	}

	registry := document.NewDefaultRegistry(document.ExtractorOptions{Logger: log})

	var extractor laudo.LineExtractor = registry
	if showProgress(cfg) {
		progress, err := newProgressExtractor(registry, len(args), cmd.ErrOrStderr())
		if err != nil {
			log.Debug("progress bar disabled", zap.Error(err))
		} else {
			defer progress.Stop()
			extractor = progress
		}
	}
	comparator := laudo.NewComparator(extractor, log)

	start := time.Now()
	table, err := comparator.CompareFiles(cmd.Context(), args, leg)
	if err != nil {
		log.Error("比对失败", zap.Strings("files", args), zap.Error(err))
		recordStats(cfg, log, stats.NewFailedRecord(args, leg.Name, time.Since(start), err))
		return err
	}

	if err := writeOutput(out, cfg, format, table); err != nil {
		log.Error("输出比对结果失败", zap.Error(err))
		return err
	}

	recordStats(cfg, log, stats.NewComparisonRecord(table))
	return nil
}

// updateConfigFromFlags 使用命令行参数更新配置
func updateConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("legislation") {
		cfg.Legislation = legislationName
	}
	if cmd.Flags().Changed("legislations-file") {
		cfg.LegislationsFile = legislationsFile
	}
	if cmd.Flags().Changed("format") {
		cfg.OutputFormat = outputFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile = outputFile
	}
	if cmd.Flags().Changed("show-skipped") {
		cfg.ShowSkipped = showSkipped
	}
	if cmd.Flags().Changed("no-stats") {
		cfg.RecordStats = !noStats
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Color = !noColor
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugMode
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verboseMode
	}
}

// loadCatalogue 内置法规加上配置的自定义法规
func loadCatalogue(cfg *config.Config, log *zap.Logger) (*laudo.Catalogue, error) {
	catalogue := laudo.DefaultCatalogue()
	if cfg.LegislationsFile == "" {
		return catalogue, nil
	}

	names, err := config.RegisterLegislations(catalogue, cfg.LegislationsFile)
	if err != nil {
		log.Error("加载自定义法规失败", zap.String("file", cfg.LegislationsFile), zap.Error(err))
		return nil, err
	}
	log.Debug("自定义法规已加载", zap.Strings("legislations", names))
	return catalogue, nil
}

func printLegislations(out io.Writer, catalogue *laudo.Catalogue, current string) {
	fmt.Fprintln(out, "可用的法规:")
	for _, name := range catalogue.Names() {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, name)
	}
}

// writeOutput 终端表格直接写到标准输出，其他格式写入文件
func writeOutput(out io.Writer, cfg *config.Config, format export.Format, table *laudo.ComparisonTable) error {
	opts := export.Options{
		Color:           cfg.Color && !color.NoColor,
		ShowDiagnostics: cfg.ShowSkipped,
	}

	path := cfg.OutputFile
	if path == "" {
		path = export.DefaultFilename(format)
	}
	if path == "" {
		writer, err := export.NewWriter(format, opts)
		if err != nil {
			return err
		}
		return writer.Write(out, table)
	}

	// 写入文件时不带终端颜色
	opts.Color = false
	if err := export.WriteFile(path, format, table, opts); err != nil {
		return err
	}

	counts := table.VerdictCounts()
	fmt.Fprintf(out, "✅ %s: %s (%d análises, %d não conformes)\n",
		table.Legislation, path, len(table.Rows), counts[laudo.VerdictNaoConforme])
	return nil
}

// recordStats 记录比对统计，失败时只记录警告
func recordStats(cfg *config.Config, log *zap.Logger, record *stats.ComparisonRecord) {
	if !cfg.RecordStats || cfg.StatsFile == "" {
		return
	}

	db, err := stats.NewDatabase(cfg.StatsFile, log)
	if err != nil {
		log.Warn("failed to open statistics database", zap.String("path", cfg.StatsFile), zap.Error(err))
		return
	}
	if err := db.AddComparisonRecord(record); err != nil {
		log.Warn("failed to record comparison", zap.Error(err))
	}
}
