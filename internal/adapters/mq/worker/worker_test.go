package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/herofan/internal/adapters/mq/queue"
	"github.com/okian/herofan/internal/adapters/mq/worker"
	"github.com/okian/herofan/internal/adapters/repository"
	"github.com/okian/herofan/internal/domain/model"
	logging "github.com/okian/herofan/pkg/logger"
)

// flakyStore fails the first failures saves, then delegates.
type flakyStore struct {
	*repository.MemoryStore
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakyStore) Save(ctx context.Context, sub model.Subscription) error {
	s.mu.Lock()
	s.calls++
	fail := s.calls <= s.failures
	s.mu.Unlock()
	if fail {
		return errors.New("disk busy")
	}
	return s.MemoryStore.Save(ctx, sub)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Welcome(_ context.Context, sub model.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sub.Email)
	return nil
}

func (n *recordingNotifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func job(email string) queue.Job {
	return queue.Job{Subscription: model.Subscription{ID: "id-" + email, Email: email, CreatedAt: time.Now()}}
}

func TestWorkerProcess(t *testing.T) {
	convey.Convey("Given a worker over a memory store", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		store := &flakyStore{MemoryStore: repository.NewMemoryStore()}
		notifier := &recordingNotifier{}
		w := worker.New(queue.NewInMemoryQueue(), store, notifier,
			worker.WithName("test"),
			worker.WithRetryInterval(time.Millisecond),
		)

		convey.Convey("When a new signup is processed", func() {
			err := w.Process(ctx, job("fan@example.com"))

			convey.Convey("Then it should be stored and welcomed", func() {
				convey.So(err, convey.ShouldBeNil)
				_, err := store.Get(ctx, "fan@example.com")
				convey.So(err, convey.ShouldBeNil)
				convey.So(notifier.Sent(), convey.ShouldResemble, []string{"fan@example.com"})
			})
		})

		convey.Convey("When the store fails transiently", func() {
			store.failures = 2
			err := w.Process(ctx, job("fan@example.com"))

			convey.Convey("Then the save should be retried", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.calls, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the store keeps failing", func() {
			store.failures = 10
			err := w.Process(ctx, job("fan@example.com"))

			convey.Convey("Then it should give up after the max tries", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(store.calls, convey.ShouldEqual, 3)
				convey.So(notifier.Sent(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the address is already stored", func() {
			convey.So(w.Process(ctx, job("fan@example.com")), convey.ShouldBeNil)
			err := w.Process(ctx, job("fan@example.com"))

			convey.Convey("Then it should be skipped without a retry or a second welcome", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.calls, convey.ShouldEqual, 2)
				convey.So(notifier.Sent(), convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the notifier fails", func() {
			notifier.err = errors.New("smtp down")
			err := w.Process(ctx, job("fan@example.com"))

			convey.Convey("Then the error should surface but the subscriber stays stored", func() {
				convey.So(err, convey.ShouldNotBeNil)
				n, _ := store.Count(ctx)
				convey.So(n, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of three workers", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		store := repository.NewMemoryStore()
		notifier := &recordingNotifier{}
		pool := worker.NewPool(3, q, store, notifier)
		convey.So(pool.Size(), convey.ShouldEqual, 3)
		pool.Start(ctx)

		convey.Convey("When jobs are enqueued and the pool shuts down", func() {
			emails := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"}
			for _, e := range emails {
				convey.So(q.Enqueue(ctx, job(e)), convey.ShouldBeNil)
			}
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then every pending job should have been drained", func() {
				n, err := store.Count(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, len(emails))
				convey.So(notifier.Sent(), convey.ShouldHaveLength, len(emails))
			})
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), repository.NewMemoryStore(), worker.LogNotifier{})
		convey.So(pool.Size(), convey.ShouldEqual, 1)
		convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
	})
}
