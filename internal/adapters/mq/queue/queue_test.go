package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/herofan/internal/domain/model"
)

func job(email string) Job {
	return Job{Subscription: model.Subscription{ID: email, Email: email}}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity two", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(2))
		So(q.Len(), ShouldEqual, 0)
		So(q.Capacity(), ShouldEqual, 2)

		Convey("When two jobs are enqueued", func() {
			So(q.Enqueue(ctx, job("a@example.com")), ShouldBeNil)
			So(q.Enqueue(ctx, job("b@example.com")), ShouldBeNil)

			Convey("Then a third should hit backpressure", func() {
				So(errors.Is(q.Enqueue(ctx, job("c@example.com")), ErrFull), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 2)
			})

			Convey("Then jobs should come out in order with a timestamp", func() {
				first := <-q.Dequeue()
				So(first.Subscription.Email, ShouldEqual, "a@example.com")
				So(first.EnqueuedAt.IsZero(), ShouldBeFalse)
				So((<-q.Dequeue()).Subscription.Email, ShouldEqual, "b@example.com")
			})

			Convey("Then closing should still drain pending jobs", func() {
				So(q.Close(), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
				var got []string
				for j := range q.Dequeue() {
					got = append(got, j.Subscription.Email)
				}
				So(got, ShouldResemble, []string{"a@example.com", "b@example.com"})
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue should fail", func() {
				So(errors.Is(q.Enqueue(ctx, job("a@example.com")), ErrClosed), ShouldBeTrue)
			})
		})
	})
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	Convey("Given producers racing for a small queue", t, func() {
		q := NewInMemoryQueue(WithCapacity(50))
		var wg sync.WaitGroup
		var mu sync.Mutex
		accepted := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					if q.Enqueue(context.Background(), job("x@example.com")) == nil {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly the capacity should be accepted", func() {
			So(accepted, ShouldEqual, 50)
			So(q.Len(), ShouldEqual, 50)
		})
	})
}
