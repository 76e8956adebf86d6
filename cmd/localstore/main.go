package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/internal/api/v1/router"
	"learnhub/internal/config"
	"learnhub/internal/localstore"
	"learnhub/internal/logger"
	"learnhub/internal/model"
	"learnhub/internal/util"

	"github.com/dgrijalva/jwt-go"
	"github.com/joho/godotenv"
)

func main() {
	mode := flag.String("mode", "", "Local store mode: seed|reset|dump|token")
	userID := flag.String("user", localstore.DemoStudentID, "user ID for -mode token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime for -mode token")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := router.OpenLocalStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to open local store: %v", err)
	}
	defer store.Close()

	var runErr error
	switch *mode {
	case "seed":
		runErr = seed(ctx, store)
	case "reset":
		if runErr = store.Clear(ctx); runErr == nil {
			runErr = seed(ctx, store)
		}
	case "dump":
		runErr = dump(ctx, store)
	case "token":
		runErr = printToken(ctx, store, cfg.JWTSecret, *userID, *ttl)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Err(runErr).Str("mode", *mode).Msg("Local store command failed")
	}
	logger.Info().Str("mode", *mode).Str("driver", cfg.LocalStoreDriver).Msg("Local store command finished")
}

func seed(ctx context.Context, store localstore.Store) error {
	written, err := localstore.Seed(ctx, store, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Printf("seeded keys: %v\n", written)
	return nil
}

// dump prints every known key as one JSON object.
func dump(ctx context.Context, store localstore.Store) error {
	out := make(map[string]json.RawMessage, len(localstore.Keys))
	for _, key := range localstore.Keys {
		var raw json.RawMessage
		found, err := store.Get(ctx, key, &raw)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		if found {
			out[key] = raw
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printToken mints a development JWT for a user in the local store.
func printToken(ctx context.Context, store localstore.Store, secret, userID string, ttl time.Duration) error {
	var users []model.Profile
	if _, err := store.Get(ctx, localstore.KeyUsers, &users); err != nil {
		return fmt.Errorf("reading users: %w", err)
	}
	claims := &util.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	for _, u := range users {
		if u.ID == userID {
			claims.Email = u.Email
			claims.UserMetadata = util.UserMetadata{FullName: u.FullName, Role: u.Role}
		}
	}
	token, err := util.SignHS256(claims, secret)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
