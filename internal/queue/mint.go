// Package queue carries mint jobs from the claim workflow to the mint worker
// over a Redis stream. Delivery is at-least-once with explicit per-message
// acknowledgement.
package queue

import (
	"context"
	"strings"
	"time"

	go_redis "github.com/redis/go-redis/v9"

	"airdrop-backend/internal/common/logger"
	"airdrop-backend/internal/platform/redis"
)

const (
	streamKey     = "airdrop:mint"
	consumerGroup = "airdrop_backend_consumers"
	consumerName  = "mint_worker_1"

	fieldAirdropID = "airdrop_id"

	readBlock    = 5 * time.Second
	errorBackoff = time.Second
)

// Handler processes one mint job. A nil return acknowledges the message;
// an error leaves it pending for redelivery.
type Handler func(ctx context.Context, airdropID string) error

type MintQueue struct {
	rdb *redis.Client
}

func NewMintQueue(rdb *redis.Client) *MintQueue {
	return &MintQueue{rdb: rdb}
}

// EnqueueMint publishes a mint job for the given ledger row.
func (q *MintQueue) EnqueueMint(ctx context.Context, airdropID string) error {
	return q.rdb.XAdd(ctx, &go_redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]any{fieldAirdropID: airdropID},
	}).Err()
}

// Consume reads mint jobs until the context is cancelled. Messages left
// unacknowledged by a previous run are drained before new ones.
func (q *MintQueue) Consume(ctx context.Context, handle Handler) {
	err := q.rdb.XGroupCreateMkStream(ctx, streamKey, consumerGroup, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		logger.Error().Err(err).Msg("failed to create consumer group")
	}

	logger.Info().Str("stream", streamKey).Msg("mint queue consumer started")

	// "0" returns this consumer's pending entries, then ">" blocks for new
	// ones.
	cursor := "0"
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("mint queue consumer stopped")
			return
		default:
		}

		entries, err := q.rdb.XReadGroup(ctx, &go_redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{streamKey, cursor},
			Count:    1,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if err == go_redis.Nil || ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Msg("failed to read from mint stream")
			time.Sleep(errorBackoff)
			continue
		}

		drained := true
		for _, stream := range entries {
			if len(stream.Messages) > 0 {
				drained = false
			}
			for _, msg := range stream.Messages {
				q.processMessage(ctx, msg, handle)
			}
		}
		if cursor == "0" && drained {
			cursor = ">"
		}
	}
}

func (q *MintQueue) processMessage(ctx context.Context, msg go_redis.XMessage, handle Handler) {
	airdropID, ok := msg.Values[fieldAirdropID].(string)
	if !ok || airdropID == "" {
		// Malformed message; retrying cannot help.
		logger.Warn().Str("message_id", msg.ID).Msg("mint message without airdrop_id, dropping")
		q.ack(ctx, msg.ID)
		return
	}

	if err := handle(ctx, airdropID); err != nil {
		// No ack: the message stays pending and is redelivered.
		logger.Error().Err(err).Str("airdrop_id", airdropID).Str("message_id", msg.ID).Msg("mint job failed, leaving for retry")
		return
	}
	q.ack(ctx, msg.ID)
}

func (q *MintQueue) ack(ctx context.Context, messageID string) {
	if err := q.rdb.XAck(ctx, streamKey, consumerGroup, messageID).Err(); err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("failed to ack mint message")
	}
}
