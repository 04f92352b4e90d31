package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"assochub/internal/config"
	"assochub/internal/handler"
	"assochub/internal/hub"
	"assochub/internal/pkg"
	"assochub/internal/repository/mongodb"
	redisrepo "assochub/internal/repository/redis"
	"assochub/internal/router"
	"assochub/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connect failed")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	memberRepo := mongodb.NewMemberRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	if err := memberRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// like cache is optional; without redis the durable counter stands alone
	var likes service.LikeCache
	if cfg.RedisAddr != "" {
		rdb, err := redisrepo.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, like cache disabled")
		} else {
			defer rdb.Close()
			likes = redisrepo.NewLikeCacheRepository(rdb)
		}
	}

	var relay *pkg.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		relay, err = pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer init failed")
		}
		defer relay.Close()
	}

	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	uploads, err := pkg.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Fatal().Err(err).Msg("upload directory init failed")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.New([]byte(cfg.AuthSecret))
	go h.Run(runCtx)

	notifier := service.NewNotifier(h, relay)

	r := router.New(router.Deps{
		Members:    handler.NewMemberHandler(service.NewMemberService(memberRepo)),
		Events:     handler.NewEventHandler(service.NewEventService(eventRepo, memberRepo, notifier, mailer)),
		Posts:      handler.NewPostHandler(service.NewPostService(postRepo, memberRepo, notifier, likes)),
		Uploads:    handler.NewUploadHandler(uploads),
		Hub:        h,
		AuthSecret: []byte(cfg.AuthSecret),
		UploadDir:  cfg.UploadDir,
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server listen failed")
		}
	}()

	<-runCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
