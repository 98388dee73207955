package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/api/auth"
	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/server"
	"github.com/tetherhq/tether-read/storage"
	"github.com/tetherhq/tether-read/store"
	"github.com/tetherhq/tether-read/store/db"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "tether-read",
		Short: "Tether Read keeps a personal EPUB library in sync across devices",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			mongo, err := db.NewDB(ctx)
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer mongo.Close(context.Background())
			if err := mongo.EnsureIndexes(ctx); err != nil {
				log.Error("Error creating indexes", zap.Error(err))
				return
			}

			bookStore := store.NewStore(mongo)
			if err := bookStore.Ping(ctx); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			objects, err := storage.NewMinioStore(ctx)
			if err != nil {
				log.Error("Error connecting to object storage", zap.Error(err))
				return
			}

			verifier, err := auth.NewJWKSVerifier(ctx)
			if err != nil {
				log.Error("Error initializing token verifier", zap.Error(err))
				return
			}

			s, err := server.StartServer(ctx, bookStore, objects, verifier)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			log.Info("Shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down server", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")
}

func main() {
	config.GetDefaultOptions()
	cobra.OnInitialize(func() {
		if configFile != "" {
			if _, err := config.ParseFile(configFile); err != nil {
				log.Logger = log.NewLogger()
				log.Fatal("Error parsing config file", zap.Error(err))
			}
		} else {
			config.GetConfig()
		}
		log.Logger = log.NewLogger()
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if log.Logger != nil {
		log.Logger.Sync()
	}
}
