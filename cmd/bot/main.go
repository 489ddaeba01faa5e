package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"votd_bot/internal/app"
	"votd_bot/internal/domain/chat"
	"votd_bot/internal/domain/trigger"
	"votd_bot/internal/domain/verse"
	"votd_bot/internal/infra/config"
	"votd_bot/internal/infra/discord"
	"votd_bot/internal/infra/health"
	"votd_bot/internal/infra/logger"
	"votd_bot/internal/infra/metrics"
	"votd_bot/internal/infra/scheduler"
	"votd_bot/internal/infra/telegram"
	"votd_bot/internal/infra/votd"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// platform is the running chat connection.
type platform struct {
	sink  chat.Sink
	start func(h chat.OnDemandHandler) error
	stop  func()
}

func main() {
	fmt.Println("Verse of the Day Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"platform":    cfg.Platform,
		"environment": cfg.Environment,
		"channel_id":  cfg.ChannelID,
		"send_time":   fmt.Sprintf("%02d:%02d", cfg.SendHour, cfg.SendMinute),
		"zone":        cfg.Location.String(),
		"source":      cfg.VerseSource,
	}).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	guard, err := trigger.NewGuard(cfg.SendHour, cfg.SendMinute, cfg.Location)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create daily trigger guard")
	}

	var source verse.Source
	switch cfg.VerseSource {
	case config.SourceStatic:
		source = votd.NewStaticSource(cfg.VerseStaticURL)
	default:
		source = votd.NewHTTPSource(cfg.VerseAPIURL, cfg.FetchTimeout)
	}

	botMetrics := metrics.NewMetrics("votd")

	var p *platform
	switch cfg.Platform {
	case config.PlatformTelegram:
		p, err = newTelegramPlatform(ctx, cfg, logger.Component("telegram"))
	default:
		p, err = newDiscordPlatform(ctx, cfg, logger.Component("discord"))
	}
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create chat bot")
	}

	verseService := app.NewVerseService(
		source,
		p.sink,
		guard,
		cfg.ChannelID,
		cfg.FetchTimeout,
		botMetrics,
		logger.Component("verse_service"),
	)

	healthServer := health.NewServer(cfg.Port, botMetrics.Handler(), logger.Component("health"))
	healthServer.Start()

	if err := p.start(verseService); err != nil {
		mainLogger.WithError(err).Fatal("Could not start chat bot")
	}

	verseScheduler := scheduler.NewVerseScheduler(
		verseService,
		cfg.Location,
		scheduler.EveryMinute,
		cfg.FetchTimeout+30*time.Second,
		logger.Component("scheduler"),
	)
	if err := verseScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start verse scheduler")
	}

	mainLogger.WithField("next_daily", verseService.NextDaily(time.Now()).Format(time.RFC3339)).
		Info("Application setup complete. Bot, scheduler and health server are running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	cancel()
	verseScheduler.Stop()
	p.stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("Health server did not shut down cleanly")
	}
	mainLogger.Info("Application shut down gracefully.")
}

func newDiscordPlatform(ctx context.Context, cfg *config.AppConfig, log *logrus.Entry) (*platform, error) {
	bot, err := discord.NewBot(ctx, cfg.BotToken, cfg.CommandPrefix, cfg.ChannelID, log)
	if err != nil {
		return nil, err
	}
	return &platform{
		sink: bot.Sink(),
		start: func(h chat.OnDemandHandler) error {
			bot.SetHandler(h)
			return bot.Open()
		},
		stop: func() {
			if err := bot.Close(); err != nil {
				log.WithError(err).Warn("Error closing Discord session")
			}
		},
	}, nil
}

func newTelegramPlatform(ctx context.Context, cfg *config.AppConfig, log *logrus.Entry) (*platform, error) {
	pref := telebot.Settings{
		Token:  cfg.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &platform{
		sink: telegram.NewTelebotAdapter(bot),
		start: func(h chat.OnDemandHandler) error {
			telegram.RegisterBotCommands(ctx, bot, h, cfg.CommandPrefix, log)
			log.WithFields(logrus.Fields{
				"user":    bot.Me.Username,
				"chat_id": cfg.ChannelID,
			}).Info("Logged in to Telegram")
			// Start bot in a goroutine so it doesn't block graceful shutdown handling
			go bot.Start()
			return nil
		},
		stop: bot.Stop,
	}, nil
}
