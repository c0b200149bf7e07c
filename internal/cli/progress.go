package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/nerdneilsfield/go-laudo-comparator/internal/config"
	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// progressExtractor 在终端显示文档提取进度
type progressExtractor struct {
	next laudo.LineExtractor
	bar  *pterm.ProgressbarPrinter
}

func newProgressExtractor(next laudo.LineExtractor, total int, w io.Writer) (*progressExtractor, error) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Extraindo laudos").
		WithWriter(w).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return nil, err
	}
	return &progressExtractor{next: next, bar: bar}, nil
}

// ExtractLines 提取一份文档并推进进度条
func (p *progressExtractor) ExtractLines(ctx context.Context, path string) ([]string, error) {
	p.bar.UpdateTitle("Extraindo " + filepath.Base(path))
	lines, err := p.next.ExtractLines(ctx, path)
	p.bar.Increment()
	return lines, err
}

func (p *progressExtractor) Stop() {
	_, _ = p.bar.Stop()
}

// showProgress 只在交互终端且未开启调试日志时显示进度条
func showProgress(cfg *config.Config) bool {
	if cfg.Debug || cfg.Verbose {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}
