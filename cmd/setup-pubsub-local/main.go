package main

import (
	"context"
	"flag"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

func main() {
	reset := flag.Bool("reset", false, "delete every topic and subscription in the emulator first")
	flag.Parse()

	log := logger.New()
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, relying on system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msgf("Failed to load config: %v", err)
	}
	if cfg.GCPProjectID == "" {
		log.Fatal().Msg("GCP_PROJECT_ID is not set")
	}
	if cfg.PubSubEmulatorHost == "" {
		log.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set; this tool only targets the local emulator")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		log.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Pub/Sub client")
		}
	}()

	if *reset {
		resetEmulator(ctx, client, log)
	}
	topic := ensureTopic(ctx, client, log, cfg.EventsTopic)
	ensureSubscription(ctx, client, log, cfg.EventsTopic+"-local-sub", topic)

	log.Info().Str("topic", cfg.EventsTopic).Msg("Pub/Sub setup for local environment complete")
}

// resetEmulator deletes all subscriptions, then all topics.
func resetEmulator(ctx context.Context, client *pubsub.Client, log zerolog.Logger) {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatal().Msgf("Failed to list subscriptions: %v", err)
		}
		log.Info().Str("subscription", sub.ID()).Msg("Deleting subscription")
		if err := sub.Delete(ctx); err != nil {
			log.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatal().Msgf("Failed to list topics: %v", err)
		}
		log.Info().Str("topic", topic.ID()).Msg("Deleting topic")
		if err := topic.Delete(ctx); err != nil {
			log.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
}

func ensureTopic(ctx context.Context, client *pubsub.Client, log zerolog.Logger, topicID string) *pubsub.Topic {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		log.Fatal().Msgf("Failed to check if topic %s exists: %v", topicID, err)
	}
	if exists {
		log.Info().Str("topic", topicID).Msg("Topic already exists")
		return topic
	}

	log.Info().Str("topic", topicID).Msg("Creating topic")
	topic, err = client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{
		RetentionDuration: 7 * 24 * time.Hour,
	})
	if err != nil {
		log.Fatal().Msgf("Failed to create topic %s: %v", topicID, err)
	}
	return topic
}

// ensureSubscription creates a pull subscription so published events can be
// inspected locally with gcloud or a client library.
func ensureSubscription(ctx context.Context, client *pubsub.Client, log zerolog.Logger, subID string, topic *pubsub.Topic) {
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Fatal().Msgf("Failed to check if subscription %s exists: %v", subID, err)
	}
	if exists {
		log.Info().Str("subscription", subID).Msg("Subscription already exists")
		return
	}

	log.Info().Str("subscription", subID).Msg("Creating subscription")
	if _, err := client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:            topic,
		AckDeadline:      60 * time.Second,
		ExpirationPolicy: 31 * 24 * time.Hour,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 10 * time.Second,
			MaximumBackoff: 600 * time.Second,
		},
	}); err != nil {
		log.Fatal().Msgf("Failed to create subscription %s: %v", subID, err)
	}
}
