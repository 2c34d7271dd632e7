package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/mylife/backend/internal/config"
	"github.com/zhouzirui/mylife/backend/internal/handler"
	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
	"github.com/zhouzirui/mylife/backend/internal/service/chat"
	dialogService "github.com/zhouzirui/mylife/backend/internal/service/dialog"
	"github.com/zhouzirui/mylife/backend/internal/storage/dialoglog"
	"github.com/zhouzirui/mylife/backend/internal/storage/dialoglog/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("failed to load questionary: %v", err)
	}
	repo := questionary.NewMemoryRepository(catalog)
	log.Printf("questionary loaded: %d sections, %d questions", len(catalog.Sections), catalog.QuestionCount())

	// Dialog logging is best-effort: the bot keeps answering without it.
	var dialogLog dialog.Log
	var shutdownLog func(context.Context)
	if cfg.DialogLog.Enabled {
		store, err := sqlite.Open(cfg.DialogLog.Path)
		if err != nil {
			log.Printf("warning: failed to open dialog log %s: %v", cfg.DialogLog.Path, err)
			log.Println("continuing without dialog logging")
		} else if cfg.DialogLog.Synchronous() {
			dialogLog = store
			shutdownLog = func(context.Context) {
				if err := store.Close(); err != nil {
					log.Printf("warning: failed to close dialog log: %v", err)
				}
			}
			log.Printf("dialog log enabled at %s (synchronous)", cfg.DialogLog.Path)
		} else {
			async := dialoglog.NewAsync(store, cfg.DialogLog.QueueSize)
			dialogLog = async
			shutdownLog = func(ctx context.Context) {
				if err := async.Close(ctx); err != nil {
					log.Printf("warning: dialog log did not drain: %v", err)
				}
				if err := store.Close(); err != nil {
					log.Printf("warning: failed to close dialog log: %v", err)
				}
			}
			log.Printf("dialog log enabled at %s", cfg.DialogLog.Path)
		}
	} else {
		log.Println("dialog log disabled by configuration")
	}

	machine := dialogService.NewMachine(repo, dialogLog)
	chatService := chat.NewService(machine)
	router := handler.NewRouter(repo, chatService)

	startServer(ctx, cfg.Server, router)

	if shutdownLog != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		shutdownLog(drainCtx)
		cancel()
	}
}

func loadCatalog(cfg config.CatalogConfig) (questionary.Catalog, error) {
	if cfg.Path == "" {
		return questionary.Default()
	}
	return questionary.LoadFile(cfg.Path)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("MyLife backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
