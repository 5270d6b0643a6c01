package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dugout-io/dugout/internal/adapters/cache"
	"github.com/dugout-io/dugout/internal/domain/result"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKey(t *testing.T) {
	Convey("Given a catalog version and spec key", t, func() {
		So(cache.Key("v1", "b=100.0"), ShouldEqual, "v1|b=100.0")

		Convey("Then distinct versions produce distinct keys", func() {
			So(cache.Key("v1", "x"), ShouldNotEqual, cache.Key("v2", "x"))
		})
	})
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()

	Convey("Given a cache with stored results", t, func() {
		c := cache.New()
		c.Put(ctx, "k1", result.Result{CatalogVersion: "v1"})

		Convey("Then stored keys are returned", func() {
			res, ok := c.Get(ctx, "k1")
			So(ok, ShouldBeTrue)
			So(res.CatalogVersion, ShouldEqual, "v1")
		})

		Convey("Then missing keys report absence", func() {
			_, ok := c.Get(ctx, "nope")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a cache bounded to two entries", t, func() {
		c := cache.New(cache.WithMaxSize(2))
		c.Put(ctx, "k1", result.Result{})
		c.Put(ctx, "k2", result.Result{})
		c.Put(ctx, "k3", result.Result{})

		Convey("Then the oldest insertion is evicted", func() {
			So(c.Len(), ShouldEqual, 2)
			_, ok := c.Get(ctx, "k1")
			So(ok, ShouldBeFalse)
			_, ok = c.Get(ctx, "k3")
			So(ok, ShouldBeTrue)
		})
	})
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent calls for the same key", t, func() {
		c := cache.New()
		var computes int32
		var wg sync.WaitGroup
		start := make(chan struct{})

		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, _, _ = c.Do(ctx, "shared", func() (result.Result, error) {
					atomic.AddInt32(&computes, 1)
					return result.Result{CatalogVersion: "v1"}, nil
				})
			}()
		}
		close(start)
		wg.Wait()

		Convey("Then the computation runs exactly once", func() {
			So(atomic.LoadInt32(&computes), ShouldEqual, 1)
			res, ok := c.Get(ctx, "shared")
			So(ok, ShouldBeTrue)
			So(res.CatalogVersion, ShouldEqual, "v1")
		})
	})

	Convey("Given a computation that fails", t, func() {
		c := cache.New()
		wantErr := errors.New("boom")
		_, cached, err := c.Do(ctx, "failing", func() (result.Result, error) {
			return result.Result{}, wantErr
		})

		Convey("Then the error propagates and nothing is cached", func() {
			So(cached, ShouldBeFalse)
			So(errors.Is(err, wantErr), ShouldBeTrue)
			_, ok := c.Get(ctx, "failing")
			So(ok, ShouldBeFalse)
		})

		Convey("Then a later call recomputes", func() {
			res, cached, err := c.Do(ctx, "failing", func() (result.Result, error) {
				return result.Result{CatalogVersion: "v2"}, nil
			})
			So(err, ShouldBeNil)
			So(cached, ShouldBeFalse)
			So(res.CatalogVersion, ShouldEqual, "v2")
		})
	})

	Convey("Given a cached key", t, func() {
		c := cache.New()
		_, _, _ = c.Do(ctx, "k", func() (result.Result, error) {
			return result.Result{CatalogVersion: "v1"}, nil
		})
		res, cached, err := c.Do(ctx, "k", func() (result.Result, error) {
			return result.Result{}, fmt.Errorf("must not run")
		})

		Convey("Then the compute function is skipped", func() {
			So(err, ShouldBeNil)
			So(cached, ShouldBeTrue)
			So(res.CatalogVersion, ShouldEqual, "v1")
		})
	})
}
