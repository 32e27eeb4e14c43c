package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"devserve/internal/browser"
	"devserve/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	root       string
	engine     *gin.Engine
	httpServer *http.Server
	log        *logrus.Entry

	mu       sync.Mutex
	listener net.Listener

	// テスト用に差し替え可能
	openBrowser func(url string, log *logrus.Entry)
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, log *logrus.Entry) (*Server, error) {
	root, err := cfg.AbsRoot()
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	handler, err := NewStaticHandler(root, log.WithField("component", "static"))
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	engine := gin.New()
	engine.Use(
		recovery(log),
		accessLog(log.WithField("component", "access")),
		corsHeaders(),
	)
	// ルーティングは行わず、すべてのリクエストを静的ファイルとして扱う
	engine.NoRoute(handler.Serve)

	return &Server{
		config: cfg,
		root:   root,
		engine: engine,
		log:    log,
		httpServer: &http.Server{
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		openBrowser: browser.Open,
	}, nil
}

// Handler はリクエストを処理する http.Handler を返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Root は配信しているルートディレクトリを返す
func (s *Server) Root() string {
	return s.root
}

// Listen は設定されたアドレスでリッスンを開始する
// 既にリッスンしている場合は何もしない
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	addr := s.config.ServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if isAddrInUse(err) {
			return &PortInUseError{Addr: addr, Port: s.config.Server.Port, Err: err}
		}
		return &BindError{Addr: addr, Err: err}
	}

	s.listener = ln
	return nil
}

// isAddrInUse はリッスンの失敗がアドレス使用中によるものかを返す
func isAddrInUse(err error) bool {
	return errors.Is(err, errAddrInUse)
}

// Addr は実際にリッスンしているアドレスを返す
// リッスン前は nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL はサーバーのURLを返す
// エフェメラルポートの場合は実際に割り当てられたポートを使う
func (s *Server) URL() string {
	addr, ok := s.Addr().(*net.TCPAddr)
	if !ok {
		return s.config.URL()
	}
	return "http://" + net.JoinHostPort(s.config.Server.Host, strconv.Itoa(addr.Port))
}

// Start はサーバーを起動する
// ctx のキャンセルか割り込みシグナルで停止し、処理中のレスポンスを書き終えてから nil を返す
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if s.config.Browser.Open {
		go s.openBrowser(s.URL(), s.log.WithField("component", "browser"))
	}

	g, gctx := errgroup.WithContext(ctx)

	// サーバーを別ゴルーチンで起動
	g.Go(func() error {
		s.log.Infof("HTTPサーバーを起動しています: %s", s.URL())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
		return nil
	})

	// コンテキストかシグナルを待つ
	g.Go(func() error {
		stoppedByUser := false
		select {
		case <-gctx.Done():
			if ctx.Err() != nil {
				s.log.Info("コンテキストがキャンセルされました")
				stoppedByUser = true
			}
		case sig := <-sigCh:
			s.log.Infof("シグナルを受信しました: %v", sig)
			stoppedByUser = true
		}

		// グレースフルシャットダウン
		if err := s.Shutdown(context.Background()); err != nil {
			return err
		}
		if stoppedByUser {
			s.log.Info("Server stopped by user")
		}
		return nil
	})

	return g.Wait()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
// 新しい接続の受け付けを止め、処理中のレスポンスの完了を待つ。ctx 以外のタイムアウトはない
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Debug("サーバーをシャットダウンしています...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	// Serve に渡される前のリスナーは Shutdown では閉じられない
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("リスナーのクローズに失敗: %w", err)
		}
	}

	s.log.Debug("サーバーが正常にシャットダウンされました")
	return nil
}
