// One-shot reminder job: sends day-before reminders then exits. Meant to
// be invoked by an external scheduler.
package main

import (
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/bot"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/config"
	"github.com/adntgv/iftar-tg-miniapp/pkg/database"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	if err := database.InitDB(cfg, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	prometheus.InitMetrics(cfg)

	b, err := bot.New(cfg.Bot, store.New(database.GetDB()), log)
	if err != nil {
		log.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	if err := b.SendReminders(); err != nil {
		log.Fatal("Reminder fan-out failed", zap.Error(err))
	}
	log.Info("Done.")
}
