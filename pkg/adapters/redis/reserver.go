package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/formflow/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an unwritten claim blocks a name.
const DefaultTTL = 10 * time.Minute

// Reserver implements ports.NameReserver using Redis SET NX.
// It coordinates several processes writing to the same namespace.
type Reserver struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	owner  string
	guard  ports.NameReserver
}

// Option configures a Reserver.
type Option func(*Reserver)

// WithTTL sets the expiration of claims.
func WithTTL(ttl time.Duration) Option {
	return func(r *Reserver) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix for claims.
func WithPrefix(prefix string) Option {
	return func(r *Reserver) {
		r.prefix = prefix
	}
}

// WithGuard chains a second reserver, usually the file store, that must also
// accept the name. This keeps names left on disk by earlier runs out of reach
// once their redis claims have expired.
func WithGuard(guard ports.NameReserver) Option {
	return func(r *Reserver) {
		r.guard = guard
	}
}

// New creates a new Redis reserver with options.
func New(address, password string, db int, opts ...Option) *Reserver {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis reserver from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Reserver {
	r := &Reserver{
		client: client,
		prefix: "formflow:output:",
		ttl:    DefaultTTL,
		owner:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reserver) key(name string) string {
	return r.prefix + name
}

// Reserve claims name in redis, then in the guard if one is configured.
func (r *Reserver) Reserve(ctx context.Context, name string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(name), r.owner, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis error reserving %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}
	if r.guard == nil {
		return true, nil
	}

	ok, err = r.guard.Reserve(ctx, name)
	if err != nil || !ok {
		if rerr := r.release(ctx, name); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return false, err
	}
	return true, nil
}

// Release drops the claim if this reserver still owns it.
func (r *Reserver) Release(ctx context.Context, name string) error {
	var guardErr error
	if r.guard != nil {
		guardErr = r.guard.Release(ctx, name)
	}
	return errors.Join(guardErr, r.release(ctx, name))
}

// Safe release: only delete the key when it still holds our owner token.
var releaseScript = backend.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

func (r *Reserver) release(ctx context.Context, name string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key(name)}, r.owner).Err(); err != nil {
		return fmt.Errorf("redis error releasing %s: %w", name, err)
	}
	return nil
}

// Close closes the redis client.
func (r *Reserver) Close() error {
	return r.client.Close()
}
