package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dugout-io/dugout/internal/adapters/mq/queue"
	"github.com/dugout-io/dugout/internal/adapters/mq/worker"
	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type recordingWarmer struct {
	mu          sync.Mutex
	versions    []string
	failVersion string
}

func (w *recordingWarmer) Warm(_ context.Context, job queue.Job) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failVersion != "" && job.CatalogVersion == w.failVersion {
		return fmt.Errorf("warm failed for %s", job.CatalogVersion)
	}
	w.versions = append(w.versions, job.CatalogVersion)
	return nil
}

func (w *recordingWarmer) seen() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.versions))
	copy(out, w.versions)
	return out
}

func testJob(version string) queue.Job {
	return queue.Job{
		CatalogVersion: version,
		Request: constraint.Request{
			Budget:    100.0,
			Formation: model.Formation{Defenders: 4, Midfielders: 4, Forwards: 2},
		},
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorkerProcessesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		warmer := &recordingWarmer{}
		w := worker.NewInMemoryWorker(q, warmer, worker.WithName("w-test"))
		go w.Run(ctx)

		Convey("When jobs are enqueued", func() {
			So(q.Enqueue(ctx, testJob("v1")), ShouldBeTrue)
			So(q.Enqueue(ctx, testJob("v2")), ShouldBeTrue)

			Convey("Then the warmer receives them", func() {
				So(waitFor(func() bool { return len(warmer.seen()) == 2 }), ShouldBeTrue)
				So(warmer.seen(), ShouldResemble, []string{"v1", "v2"})
			})
		})

		Convey("When the worker shuts down", func() {
			shutdownCtx, stop := context.WithTimeout(ctx, time.Second)
			defer stop()
			So(w.Shutdown(shutdownCtx), ShouldBeNil)
		})
	})
}

func TestWorkerSurvivesWarmErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a warmer that fails on one job", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		warmer := &recordingWarmer{failVersion: "v1"}
		w := worker.NewInMemoryWorker(q, warmer)
		go w.Run(ctx)

		So(q.Enqueue(ctx, testJob("v1")), ShouldBeTrue)
		So(q.Enqueue(ctx, testJob("v2")), ShouldBeTrue)

		Convey("Then the worker keeps running and processes later jobs", func() {
			So(waitFor(func() bool { return len(warmer.seen()) == 1 }), ShouldBeTrue)
			So(warmer.seen(), ShouldResemble, []string{"v2"})
		})
	})
}

func TestPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		warmer := &recordingWarmer{}
		pool := worker.NewPool(4, q, warmer)
		pool.Start(ctx)

		Convey("When many jobs are enqueued", func() {
			for i := 0; i < 32; i++ {
				So(q.Enqueue(ctx, testJob(fmt.Sprintf("v%d", i))), ShouldBeTrue)
			}

			Convey("Then all are processed", func() {
				So(waitFor(func() bool { return len(warmer.seen()) == 32 }), ShouldBeTrue)
			})

			Convey("And shutdown drains cleanly", func() {
				shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				So(pool.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}
