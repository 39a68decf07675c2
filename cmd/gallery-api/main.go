package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	rd "github.com/redis/go-redis/v9"

	"github.com/mkimathi/gallery-api/internal/artwork"
	"github.com/mkimathi/gallery-api/internal/auth"
	"github.com/mkimathi/gallery-api/internal/config"
	"github.com/mkimathi/gallery-api/internal/exhibition"
	"github.com/mkimathi/gallery-api/internal/message"
	"github.com/mkimathi/gallery-api/internal/mpesa"
	"github.com/mkimathi/gallery-api/internal/order"
	"github.com/mkimathi/gallery-api/internal/user"
	"github.com/mkimathi/gallery-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("postgres ping: %v", err)
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	store := order.NewPGStore(pool)
	d := deps{
		cfg:         cfg,
		rdb:         rdb,
		auth:        auth.NewService(user.NewPGRepo(pool), auth.NewRedisStore(rdb), cfg.TokenTTL),
		artworks:    artwork.NewPGRepo(pool),
		exhibitions: exhibition.NewPGRepo(pool),
		messages:    message.NewPGRepo(pool),
		store:       store,
		mpesa: mpesa.New(mpesa.Config{
			ConsumerKey:    cfg.MpesaConsumerKey,
			ConsumerSecret: cfg.MpesaConsumerSecret,
			Passkey:        cfg.MpesaPasskey,
			Shortcode:      cfg.MpesaShortcode,
			CallbackURL:    cfg.MpesaCallbackURL,
			Simulate:       cfg.MpesaSimulate,
		}, store),
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(d),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("gallery-api listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
