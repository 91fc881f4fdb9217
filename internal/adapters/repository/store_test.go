package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/herofan/internal/domain/model"
)

func sub(id, email string, at time.Time) model.Subscription {
	return model.Subscription{ID: id, Email: email, CreatedAt: at}
}

// storeContract runs the behaviour every Store must share.
func storeContract(open func() Store) {
	ctx := context.Background()
	s := open()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	Reset(func() { _ = s.Close() })

	Convey("When subscribers are saved", func() {
		So(s.Save(ctx, sub("1", "stark@example.com", t0)), ShouldBeNil)
		So(s.Save(ctx, sub("2", "rogers@example.com", t0.Add(time.Minute))), ShouldBeNil)

		Convey("Then they should be counted and listed oldest first", func() {
			n, err := s.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			all, err := s.List(ctx)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 2)
			So(all[0].Email, ShouldEqual, "stark@example.com")
			So(all[1].CreatedAt.Equal(t0.Add(time.Minute)), ShouldBeTrue)
		})

		Convey("Then Get should find them by email", func() {
			got, err := s.Get(ctx, "rogers@example.com")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, "2")
		})

		Convey("Then saving the same email again should be a duplicate", func() {
			err := s.Save(ctx, sub("3", "stark@example.com", t0))
			So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
		})
	})

	Convey("When an unknown email is requested", func() {
		_, err := s.Get(ctx, "banner@example.com")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})

}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		storeContract(func() Store { return NewMemoryStore() })
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a SQLite store in a temp dir", t, func() {
		dir := t.TempDir()
		storeContract(func() Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(dir, "subs.db"))
			So(err, ShouldBeNil)
			return s
		})
	})

	Convey("Given a SQLite file reopened after a write", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "subs.db")
		s, err := OpenSQLite(ctx, path, WithJournalMode("DELETE"), WithBusyTimeout(time.Second))
		So(err, ShouldBeNil)
		So(s.Save(ctx, sub("1", "parker@example.com", time.Now())), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		s, err = OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("Then the subscriber should still be there", func() {
			n, err := s.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := OpenSQLite(context.Background(), " ")
		So(err, ShouldNotBeNil)
	})
}
