package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pocat/internal/configurator"
	"pocat/pkg/redis"
)

const stateTTL = 24 * time.Hour

// Storage keeps drafts and bot chat state in Redis as JSON blobs.
type Storage struct {
	client   *redis.Client
	draftTTL time.Duration
}

func New(client *redis.Client, draftTTL time.Duration) *Storage {
	return &Storage{client: client, draftTTL: draftTTL}
}

func (s *Storage) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	const operation = "redis.LoadDraft"

	data, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.ErrNil) {
		return nil, configurator.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return data, nil
}

// SaveDraft stores the blob and restarts its TTL.
func (s *Storage) SaveDraft(ctx context.Context, key string, blob []byte) error {
	const operation = "redis.SaveDraft"

	if err := s.client.Set(ctx, key, blob, s.draftTTL); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (s *Storage) DeleteDraft(ctx context.Context, key string) error {
	const operation = "redis.DeleteDraft"

	if err := s.client.Del(ctx, key); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

// LoadChatState decodes the chat's bot state into dst. found is false when
// the chat has none or it expired.
func (s *Storage) LoadChatState(ctx context.Context, chatID int64, dst any) (bool, error) {
	const operation = "redis.LoadChatState"

	err := s.client.GetJSON(ctx, buildStateKey(chatID), dst)
	if errors.Is(err, redis.ErrNil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}
	return true, nil
}

// SaveChatState stores the chat's bot state and restarts its TTL.
func (s *Storage) SaveChatState(ctx context.Context, chatID int64, state any) error {
	const operation = "redis.SaveChatState"

	if err := s.client.SetJSON(ctx, buildStateKey(chatID), state, stateTTL); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (s *Storage) DropChatState(ctx context.Context, chatID int64) error {
	const operation = "redis.DropChatState"

	if err := s.client.Del(ctx, buildStateKey(chatID)); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func buildStateKey(chatID int64) string {
	return "state:" + strconv.FormatInt(chatID, 10)
}
