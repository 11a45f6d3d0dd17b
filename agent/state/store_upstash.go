package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const upstashMaxReply = 1 << 20

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" required:"true"`
	Token   string        `envconfig:"TOKEN" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// UpstashRedisStore keeps sessions in Upstash Redis, talking to its REST
// endpoint with one JSON encoded command per request.
type UpstashRedisStore struct {
	endpoint string
	token    string
	opts     storeOptions
}

// upstashReply is the REST envelope. Result is null for a Redis nil.
type upstashReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid upstash rest url %q: %w", cfg.URL, err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	o, err := resolveOptions(append([]StoreOption{WithHTTPClient(&http.Client{Timeout: timeout})}, opts...))
	if err != nil {
		return nil, err
	}
	return &UpstashRedisStore{endpoint: endpoint, token: token, opts: o}, nil
}

func (u *UpstashRedisStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	key, err := sessionKey(u.opts.keyPrefix, sessionID)
	if err != nil {
		return nil, err
	}
	reply, err := u.command(ctx, "GET", key)
	if err != nil {
		return nil, err
	}
	if len(reply.Result) == 0 || string(reply.Result) == "null" {
		return nil, ErrStateNotFound
	}
	var payload string
	if err := json.Unmarshal(reply.Result, &payload); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	return decodeSession([]byte(payload))
}

func (u *UpstashRedisStore) Save(ctx context.Context, s *Session) error {
	payload, err := prepareSave(s)
	if err != nil {
		return err
	}
	key, err := sessionKey(u.opts.keyPrefix, s.ID)
	if err != nil {
		return err
	}

	args := []string{"SET", key, string(payload)}
	if u.opts.ttl > 0 {
		args = append(args, "EX", strconv.FormatInt(ttlSeconds(u.opts.ttl), 10))
	}
	_, err = u.command(ctx, args...)
	return err
}

func (u *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(u.opts.keyPrefix, sessionID)
	if err != nil {
		return err
	}
	_, err = u.command(ctx, "DEL", key)
	return err
}

func (u *UpstashRedisStore) command(ctx context.Context, args ...string) (*upstashReply, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", args[0], err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", args[0], err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.opts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, args[0], err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, upstashMaxReply))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s reply: %v", ErrStoreUnavailable, args[0], err)
	}

	var reply upstashReply
	decodeErr := json.Unmarshal(raw, &reply)
	switch {
	case reply.Error != "":
		return nil, fmt.Errorf("%w: %s: %s", ErrStoreUnavailable, args[0], reply.Error)
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("%w: %s: http %d", ErrStoreUnavailable, args[0], resp.StatusCode)
	case decodeErr != nil:
		return nil, fmt.Errorf("decode %s reply: %w", args[0], decodeErr)
	}
	return &reply, nil
}

// ttlSeconds rounds up to whole seconds, the unit of the EX argument.
func ttlSeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	return max(secs, 1)
}
