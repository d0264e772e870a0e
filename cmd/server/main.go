// Package main 是应用程序的入口点。
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/config"
	"krishimitra-go/internal/handler"
	"krishimitra-go/internal/repository"
	"krishimitra-go/internal/router"
	"krishimitra-go/internal/service"
	"krishimitra-go/pkg/events"
	"krishimitra-go/pkg/log"
)

const serviceName = "krishimitra"

// version 在构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "KrishiMitra - mock agricultural assistant API",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), serviceName, version)
	},
}

var configPath string

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file (empty for defaults + env only)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. 初始化配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. 初始化日志记录器
	if err := log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	gin.SetMode(cfg.Server.Mode)

	// 3. 检测事件发布器，未配置 Kafka 时为 no-op
	publisher := events.New(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("关闭事件发布器失败", err)
		}
	}()

	h, err := buildHandler(cfg, publisher)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg.Server, h)
}

// buildHandler 加载静态数据并按 repository -> service -> handler 的顺序组装路由。
func buildHandler(cfg *config.Config, publisher events.Publisher) (http.Handler, error) {
	c, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// 4. 初始化 Repository
	chatRepo := repository.NewChatRepository(c)
	diseaseRepo := repository.NewDiseaseRepository(c)
	priceRepo := repository.NewPriceRepository(c)

	// 5. 初始化 Service (依赖注入)
	rnd := service.DefaultRand()
	chatService := service.NewChatService(chatRepo)
	diseaseService := service.NewDiseaseService(diseaseRepo, publisher, rnd)
	priceService := service.NewPriceService(priceRepo)
	weatherService := service.NewWeatherService(cfg.Weather.DefaultLocation, rnd, nil)

	// 6. 注册路由
	return router.New(cfg, router.Handlers{
		Health:  handler.NewHealthHandler(serviceName, version),
		Chat:    handler.NewChatHandler(chatService),
		Disease: handler.NewDiseaseHandler(diseaseService),
		Price:   handler.NewPriceHandler(priceService),
		Weather: handler.NewWeatherHandler(weatherService),
	}), nil
}

// serve 启动 HTTP 服务器，ctx 结束后优雅停机。
func serve(ctx context.Context, cfg config.ServerConfig, h http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务监听失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("接收到停机信号，正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP 服务器关闭失败: %w", err)
	}
	log.Info("服务已优雅关闭")
	return nil
}
