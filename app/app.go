package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"librarymgmt/config"
	"librarymgmt/internal/handler"
	"librarymgmt/internal/repository"
	"librarymgmt/internal/server"
	"librarymgmt/internal/service"
	"librarymgmt/migrations"
	"librarymgmt/pkg/kafka"
	"librarymgmt/pkg/logger"
	"librarymgmt/pkg/postgres"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	ratePerDay, err := decimal.NewFromString(cfg.Library.FineRatePerDay)
	if err != nil {
		log.Fatal("parse fine rate", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log, ratePerDay)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	svc := service.NewService(repo, producer, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	runCtx, cancel := context.WithCancel(context.Background())
	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		return kafka.Consume(gCtx, consumer, handler.NewConsumer(svc.ApplyEvent, log), kafka.LibraryTopic)
	})

	// Optional freshness sweep for the cached overdue status; reads never
	// depend on it.
	if interval := cfg.Library.OverdueSweepInterval; interval > 0 {
		g.Go(func() error {
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					n, err := svc.MaterializeOverdue(gCtx)
					if err != nil {
						log.Error("overdue sweep", zap.Error(err))
						continue
					}
					if n > 0 {
						log.Info("overdue sweep", zap.Int64("materialized", n))
					}
				case <-gCtx.Done():
					return nil
				}
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("shutdown", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
