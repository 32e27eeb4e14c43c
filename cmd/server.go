// Package cmd は devserve コマンドの実装です
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"devserve/internal/config"
	"devserve/internal/server"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options はコマンドラインオプション
type options struct {
	host      string
	port      int
	root      string
	noBrowser bool
	verbosity string
}

// NewCmdServe はサーバーを起動するルートコマンドを作成する
func NewCmdServe(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "devserve",
		Short: "Serve a directory over HTTP for local development",
		Long: "Serves static files from a directory with permissive CORS headers,\n" +
			"serves .js files as text/javascript and opens the default browser.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return &server.UnexpectedError{Err: err}
			}
			if err := opts.apply(cmd.Flags(), cfg); err != nil {
				return &server.UnexpectedError{Err: err}
			}

			logger, err := newLogger(errOut, opts.verbosity)
			if err != nil {
				return &server.UnexpectedError{Err: err}
			}

			return run(cmd.Context(), out, cfg, logger)
		},
	}

	// 既定値は config.Load と環境変数で決まるため、フラグは明示された場合のみ反映する
	cmd.Flags().StringVar(&opts.host, "host", "", "Host to listen on (default localhost, env SERVER_HOST)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default 8080, env SERVER_PORT)")
	cmd.Flags().StringVarP(&opts.root, "root", "d", "", "Directory to serve (default current directory, env SERVE_ROOT)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Do not open the default browser")
	cmd.Flags().StringVarP(&opts.verbosity, "verbosity", "v", logrus.InfoLevel.String(), "Log level (debug, info, warn, error)")

	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

// apply はコマンドラインオプションで設定を上書きする
func (o *options) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
	if flags.Changed("root") {
		cfg.Static.Root = o.root
	}
	if o.noBrowser {
		cfg.Browser.Open = false
	}
	return cfg.Validate()
}

func newLogger(out io.Writer, verbosity string) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return nil, fmt.Errorf("無効なログレベル: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// run はサーバーをリッスンさせ、起動メッセージを表示して停止まで配信する
func run(ctx context.Context, out io.Writer, cfg *config.Config, logger *logrus.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	// リッスン直後から Ctrl+C を受け取れるよう、シグナルはリッスン前に登録する
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logrus.NewEntry(logger))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Starting server...")
	fmt.Fprintf(out, "Directory: %s\n", srv.Root())

	if err := srv.Listen(); err != nil {
		return err
	}

	printBanner(out, srv.URL())
	if err := srv.Start(ctx); err != nil {
		return err
	}

	// ログレベルに関係なく停止を知らせる
	fmt.Fprintln(out, "Server stopped by user")
	return nil
}

// printBanner はリッスン開始後の案内を表示する
func printBanner(out io.Writer, url string) {
	bold := color.New(color.FgGreen, color.Bold)

	bold.Fprintf(out, "Server running at %s/\n", url)
	fmt.Fprintf(out, "Open your browser and navigate to %s\n", url)
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")
	fmt.Fprintln(out, strings.Repeat("-", 50))
}

// Execute はルートコマンドを実行する
func Execute(ctx context.Context) error {
	return NewCmdServe(os.Stdout, os.Stderr).ExecuteContext(ctx)
}
