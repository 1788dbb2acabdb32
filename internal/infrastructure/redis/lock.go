package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LockOptions parámetros del mutex distribuido.
type LockOptions struct {
	Expiry      time.Duration
	Tries       int
	RetryDelay  time.Duration
	DriftFactor float64
}

// DefaultLockOptions valores por defecto. Mientras fn corre, el candado se extiende cada
// Expiry/2; si el proceso muere deja de extenderse y expira a los Expiry.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:      10 * time.Second,
		Tries:       32,
		RetryDelay:  50 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

// DistributedLock candado por entidad entre instancias (RedLock sobre un nodo Redis).
type DistributedLock struct {
	redsync *redsync.Redsync
	opts    LockOptions
	log     zerolog.Logger
}

// NewDistributedLock construye el candado sobre un cliente go-redis.
func NewDistributedLock(client goredislib.UniversalClient, opts LockOptions, log zerolog.Logger) *DistributedLock {
	pool := goredis.NewPool(client)
	return &DistributedLock{redsync: redsync.New(pool), opts: opts, log: log}
}

// WithLock toma la clave, ejecuta fn y la libera. Fallar al tomarla no ejecuta fn.
func (dl *DistributedLock) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := dl.redsync.NewMutex(
		"lock:"+key,
		redsync.WithExpiry(dl.opts.Expiry),
		redsync.WithTries(dl.opts.Tries),
		redsync.WithRetryDelay(dl.opts.RetryDelay),
		redsync.WithDriftFactor(dl.opts.DriftFactor),
	)
	if err := mutex.LockContext(ctx); err != nil {
		dl.log.Error().Err(err).Str("key", key).Msg("no se pudo tomar el candado")
		return fmt.Errorf("tomar candado %s: %w", key, err)
	}
	stop, done := make(chan struct{}), make(chan struct{})
	go dl.keepAlive(ctx, mutex, key, stop, done)
	defer func() {
		close(stop)
		<-done
		// Liberar aunque ctx ya se haya cancelado.
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			dl.log.Error().Err(err).Str("key", key).Bool("ok", ok).Msg("no se pudo liberar el candado")
		}
	}()
	return fn(ctx)
}

// keepAlive extiende el candado cada Expiry/2 hasta que se cierre stop.
func (dl *DistributedLock) keepAlive(ctx context.Context, mutex *redsync.Mutex, key string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := dl.opts.Expiry / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ok, err := mutex.ExtendContext(ctx); !ok || err != nil {
				dl.log.Warn().Err(err).Str("key", key).Bool("ok", ok).Msg("no se pudo extender el candado")
			}
		}
	}
}
