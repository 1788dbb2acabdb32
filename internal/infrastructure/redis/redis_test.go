package redis_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	infraredis "github.com/jhoicas/inventario-stock/internal/infrastructure/redis"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// ──────────────────────────────────────────────────────────────────────────────
// Candado distribuido
// ──────────────────────────────────────────────────────────────────────────────

func TestDistributedLock_SerializaPorClave(t *testing.T) {
	_, client := newClient(t)
	opts := infraredis.DefaultLockOptions()
	opts.RetryDelay = 5 * time.Millisecond
	opts.Tries = 500
	dl := infraredis.NewDistributedLock(client, opts, zerolog.Nop())

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := dl.WithLock(context.Background(), "po:1", func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside, "un solo escritor por clave")
}

func TestDistributedLock_LiberaYPrefijaClave(t *testing.T) {
	mr, client := newClient(t)
	dl := infraredis.NewDistributedLock(client, infraredis.DefaultLockOptions(), zerolog.Nop())

	err := dl.WithLock(context.Background(), "product:p1", func(ctx context.Context) error {
		assert.True(t, mr.Exists("lock:product:p1"), "clave tomada mientras corre fn")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("lock:product:p1"), "se libera al terminar")
}

func TestDistributedLock_ExtiendeMientrasCorreFn(t *testing.T) {
	mr, client := newClient(t)
	opts := infraredis.DefaultLockOptions()
	opts.Expiry = 400 * time.Millisecond
	dl := infraredis.NewDistributedLock(client, opts, zerolog.Nop())

	err := dl.WithLock(context.Background(), "count:s1", func(ctx context.Context) error {
		// Consumir casi toda la expiración; la extensión periódica debe renovarla.
		mr.FastForward(300 * time.Millisecond)
		time.Sleep(350 * time.Millisecond)
		assert.True(t, mr.Exists("lock:count:s1"), "el candado sigue tomado")
		assert.Greater(t, mr.TTL("lock:count:s1"), 100*time.Millisecond, "ttl renovado")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("lock:count:s1"))
}

func TestDistributedLock_ClaveOcupadaNoEjecuta(t *testing.T) {
	mr, client := newClient(t)
	require.NoError(t, mr.Set("lock:transfer:t1", "otro-dueño"))
	opts := infraredis.DefaultLockOptions()
	opts.Tries = 2
	opts.RetryDelay = time.Millisecond
	dl := infraredis.NewDistributedLock(client, opts, zerolog.Nop())

	called := false
	err := dl.WithLock(context.Background(), "transfer:t1", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Publicador de eventos
// ──────────────────────────────────────────────────────────────────────────────

func TestEventPublisher_PublicaEnElCanal(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "inventario.test")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	ch := sub.Channel()

	pub := infraredis.NewEventPublisher(client, "inventario.test")
	p := &entity.Product{ID: "p1", SKU: "A-1", Name: "Arroz", Stock: decimal.NewFromInt(2), MinStock: decimal.NewFromInt(5)}
	require.NoError(t, pub.LowStockCrossed(ctx, p, "w1"))

	select {
	case msg := <-ch:
		var ev infraredis.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, infraredis.EventLowStock, ev.Type)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "p1", payload["product_id"])
		assert.Equal(t, "w1", payload["warehouse_id"])
		assert.Equal(t, "2", payload["stock"])
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
}

func TestEventPublisher_TrasladoCompletado(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, infraredis.DefaultEventsChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	ch := sub.Channel()

	pub := infraredis.NewEventPublisher(client, "")
	tr := &entity.StockTransfer{ID: "t1", TransferNumber: "TR-2026-0001", FromWarehouseID: "w1", ToWarehouseID: "w2",
		Items: []entity.TransferItem{{ID: "i1"}, {ID: "i2"}}}
	require.NoError(t, pub.TransferCompleted(ctx, tr))

	select {
	case msg := <-ch:
		var ev infraredis.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, infraredis.EventTransferCompleted, ev.Type)
		assert.Contains(t, string(ev.Payload), "TR-2026-0001")
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
}
