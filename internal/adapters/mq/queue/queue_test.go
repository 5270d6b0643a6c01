package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/dugout-io/dugout/internal/adapters/mq/queue"
	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func testJob(version string) queue.Job {
	return queue.Job{
		CatalogVersion: version,
		Request: constraint.Request{
			Budget:    100.0,
			Formation: model.Formation{Defenders: 4, Midfielders: 4, Forwards: 2},
		},
	}
}

func TestEnqueueDequeue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		defer q.Close()

		Convey("When jobs are enqueued", func() {
			So(q.Enqueue(ctx, testJob("v1")), ShouldBeTrue)
			So(q.Enqueue(ctx, testJob("v2")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then they are received in order", func() {
				jobs := q.Dequeue(ctx)
				first := <-jobs
				second := <-jobs
				So(first.CatalogVersion, ShouldEqual, "v1")
				So(second.CatalogVersion, ShouldEqual, "v2")
			})
		})
	})
}

func TestEnqueueBackpressure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a full queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		defer q.Close()
		So(q.Enqueue(ctx, testJob("v1")), ShouldBeTrue)

		Convey("Then further enqueues are dropped, not blocked", func() {
			done := make(chan bool, 1)
			go func() { done <- q.Enqueue(ctx, testJob("v2")) }()

			select {
			case ok := <-done:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				t.Error("enqueue blocked on a full queue")
			}
		})
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		So(q.Enqueue(ctx, testJob("v1")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then enqueues are rejected", func() {
			So(q.Enqueue(ctx, testJob("v2")), ShouldBeFalse)
		})

		Convey("Then the dequeue channel drains and closes", func() {
			jobs := q.Dequeue(ctx)
			j, ok := <-jobs
			So(ok, ShouldBeTrue)
			So(j.CatalogVersion, ShouldEqual, "v1")
			_, ok = <-jobs
			So(ok, ShouldBeFalse)
		})

		Convey("Then closing again is harmless", func() {
			So(q.Close(), ShouldBeNil)
		})
	})
}
