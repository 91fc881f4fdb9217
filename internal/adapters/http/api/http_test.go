package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/herofan/internal/adapters/http/api"
	"github.com/okian/herofan/internal/domain/arena"
	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeDeps backs every handler with the embedded catalog and neutral factors.
type fakeDeps struct {
	catalog  *catalog.Catalog
	resolver *battle.Resolver
	seen     map[string]bool
	enqueued []string
	full     bool
	delay    time.Duration
}

func newFakeDeps() *fakeDeps {
	c, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	return &fakeDeps{
		catalog:  c,
		resolver: battle.NewResolver(battle.WithFactorSource(battle.FixedFactor(1))),
		seen:     map[string]bool{},
		delay:    2 * time.Second,
	}
}

func (f *fakeDeps) Roster(context.Context) ([]model.CompetitorProfile, error) {
	return f.catalog.Roster, nil
}

func (f *fakeDeps) Hero(_ context.Context, id int) (model.CompetitorProfile, error) {
	return f.catalog.Hero(id)
}

func (f *fakeDeps) Content(context.Context) (*catalog.Catalog, error) { return f.catalog, nil }

func (f *fakeDeps) Battle(ctx context.Context, a, b int) (string, model.BattleOutcome, error) {
	ha, err := f.Hero(ctx, a)
	if err != nil {
		return "", model.BattleOutcome{}, err
	}
	hb, err := f.Hero(ctx, b)
	if err != nil {
		return "", model.BattleOutcome{}, err
	}
	if b == 6 {
		// Hulk loses a stat to exercise the invalid profile path.
		attrs := model.Attributes{}
		for k, v := range hb.Attributes {
			if k != model.AttrCombat {
				attrs[k] = v
			}
		}
		hb.Attributes = attrs
	}
	out, err := f.resolver.Resolve(&ha, &hb)
	return "battle-1", out, err
}

func (f *fakeDeps) RevealDelay() time.Duration { return f.delay }

func (f *fakeDeps) SeenAndRecord(_ context.Context, key string) bool {
	if f.seen[key] {
		return true
	}
	f.seen[key] = true
	return false
}

func (f *fakeDeps) Unrecord(_ context.Context, key string) { delete(f.seen, key) }

func (f *fakeDeps) Size() int64 { return int64(len(f.seen)) }

func (f *fakeDeps) EnqueueSignup(_ context.Context, email string) bool {
	if f.full {
		return false
	}
	f.enqueued = append(f.enqueued, email)
	return true
}

func (f *fakeDeps) NewArena(opts ...arena.Option) (*arena.Arena, error) {
	return arena.New(f.resolver, append([]arena.Option{arena.WithRevealDelay(f.delay)}, opts...)...), nil
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newFakeDeps())

		Convey("Then /healthz should expose Prometheus metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "herofan_")
		})

		Convey("Then /healthz should answer JSON when asked", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Accept", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then /stats should merge runtime figures", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
			So(stats["heapAlloc"], ShouldNotBeEmpty)
		})

		Convey("Then unknown API paths should be JSON 404s", func() {
			w := do(mux, http.MethodGet, "/api/villains", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})

		Convey("Then a wrong method should be rejected", func() {
			w := do(mux, http.MethodDelete, "/api/heroes", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestHeroesHandler(t *testing.T) {
	Convey("Given the heroes routes", t, func() {
		mux := newMux(newFakeDeps())

		Convey("When listing heroes", func() {
			w := do(mux, http.MethodGet, "/api/heroes", "")
			var roster []model.CompetitorProfile
			So(json.Unmarshal(w.Body.Bytes(), &roster), ShouldBeNil)

			Convey("Then the whole roster should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(roster, ShouldHaveLength, 6)
				So(roster[0].Attributes["intelligence"], ShouldEqual, 100)
			})
		})

		Convey("When fetching one hero", func() {
			w := do(mux, http.MethodGet, "/api/heroes/5", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Black Panther")
		})

		Convey("When the id is unknown or malformed", func() {
			So(do(mux, http.MethodGet, "/api/heroes/99", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/api/heroes/thor", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestContentHandler(t *testing.T) {
	Convey("Given the content route", t, func() {
		w := do(newMux(newFakeDeps()), http.MethodGet, "/api/content", "")

		Convey("Then every content table should be present", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]json.RawMessage
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			for _, k := range []string{"banner", "attributes", "featured", "timeline", "statistics", "footer"} {
				So(body, ShouldContainKey, k)
			}
			So(body, ShouldNotContainKey, "roster")
		})
	})
}

func TestBattlesHandler(t *testing.T) {
	Convey("Given the battles route", t, func() {
		mux := newMux(newFakeDeps())

		Convey("When Iron Man challenges Captain America", func() {
			w := do(mux, http.MethodPost, "/api/battles", `{"challenger_id":1,"opponent_id":2}`)

			Convey("Then the outcome and reveal delay should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					BattleID      string              `json:"battle_id"`
					Outcome       model.BattleOutcome `json:"outcome"`
					RevealAfterMS int64               `json:"reveal_after_ms"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.BattleID, ShouldEqual, "battle-1")
				So(resp.Outcome.WinnerID, ShouldEqual, 1)
				So(resp.Outcome.Breakdown, ShouldResemble, model.Breakdown{Wins: 2, Losses: 2, Ties: 1})
				So(resp.RevealAfterMS, ShouldEqual, 2000)
			})
		})

		Convey("When the request is malformed", func() {
			cases := []string{`{`, `{}`, `{"challenger_id":1}`, `{"challenger_id":3,"opponent_id":3}`}
			for _, body := range cases {
				So(do(mux, http.MethodPost, "/api/battles", body).Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When a hero is unknown", func() {
			w := do(mux, http.MethodPost, "/api/battles", `{"challenger_id":1,"opponent_id":77}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a profile is invalid", func() {
			w := do(mux, http.MethodPost, "/api/battles", `{"challenger_id":1,"opponent_id":6}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(w.Body.String(), ShouldContainSubstring, "invalid_profile")
		})
	})
}

func TestNewsletterHandler(t *testing.T) {
	Convey("Given the newsletter route", t, func() {
		deps := newFakeDeps()
		mux := newMux(deps)

		Convey("When a new address signs up", func() {
			w := do(mux, http.MethodPost, "/api/newsletter", `{"email":" Stark@Example.com "}`)

			Convey("Then it should be accepted and normalized", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldResemble, []string{"stark@example.com"})
			})

			Convey("And the same address signs up again", func() {
				w := do(mux, http.MethodPost, "/api/newsletter", `{"email":"stark@example.com"}`)

				Convey("Then it should be reported as a duplicate", func() {
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
					So(deps.enqueued, ShouldHaveLength, 1)
				})
			})
		})

		Convey("When the address is invalid", func() {
			for _, body := range []string{`{"email":""}`, `{"email":"not-an-email"}`, `{"email":"Tony <t@example.com>"}`, `[]`} {
				So(do(mux, http.MethodPost, "/api/newsletter", body).Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the queue is full", func() {
			deps.full = true
			w := do(mux, http.MethodPost, "/api/newsletter", `{"email":"rogers@example.com"}`)

			Convey("Then it should apply backpressure and forget the address", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.seen, ShouldNotContainKey, "rogers@example.com")
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given kind errors", t, func() {
		cause := fmt.Errorf("boom")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause should match", func() {
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(api.NewKind("api.op", api.ErrBackpressure).Error(), ShouldEqual, "api.op: backpressure")
		})
	})
}

type wsFrame struct {
	Type          string         `json:"type"`
	Session       *arena.Session `json:"session"`
	RevealAfterMS int64          `json:"reveal_after_ms"`
	Code          string         `json:"code"`
}

func readFrame(conn *websocket.Conn) wsFrame {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f wsFrame
	So(conn.ReadJSON(&f), ShouldBeNil)
	return f
}

func TestArenaHandler(t *testing.T) {
	Convey("Given a live arena websocket", t, func() {
		deps := newFakeDeps()
		deps.delay = 0
		srv := httptest.NewServer(newMux(deps))
		defer srv.Close()

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/arena", nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("Then the first frame should be an idle snapshot", func() {
			f := readFrame(conn)
			So(f.Type, ShouldEqual, "session")
			So(f.Session.State, ShouldEqual, arena.Idle)
		})

		Convey("When two heroes are picked and the battle started", func() {
			readFrame(conn)
			So(conn.WriteJSON(map[string]any{"type": "pick", "hero_id": 1}), ShouldBeNil)
			So(readFrame(conn).Session.State, ShouldEqual, arena.Idle)
			So(conn.WriteJSON(map[string]any{"type": "pick", "hero_id": 2}), ShouldBeNil)
			So(readFrame(conn).Session.State, ShouldEqual, arena.BothSelected)
			So(conn.WriteJSON(map[string]any{"type": "start"}), ShouldBeNil)

			Convey("Then resolving and revealed frames should follow", func() {
				So(readFrame(conn).Session.State, ShouldEqual, arena.Resolving)
				f := readFrame(conn)
				So(f.Session.State, ShouldEqual, arena.Revealed)
				So(f.Session.Outcome.WinnerID, ShouldEqual, 1)
				So(f.Session.Outcome.Breakdown.Total(), ShouldEqual, 5)
			})
		})

		Convey("When a picked hero is cleared from its slot", func() {
			readFrame(conn)
			So(conn.WriteJSON(map[string]any{"type": "pick", "hero_id": 1}), ShouldBeNil)
			readFrame(conn)
			So(conn.WriteJSON(map[string]any{"type": "pick", "hero_id": 2}), ShouldBeNil)
			So(readFrame(conn).Session.State, ShouldEqual, arena.BothSelected)
			So(conn.WriteJSON(map[string]any{"type": "clear", "slot": 1}), ShouldBeNil)

			Convey("Then only the other slot should stay filled", func() {
				f := readFrame(conn)
				So(f.Session.State, ShouldEqual, arena.Idle)
				So(f.Session.One, ShouldBeNil)
				So(f.Session.Two.ID, ShouldEqual, 2)
			})

			Convey("Then clearing an unknown slot should be rejected", func() {
				readFrame(conn)
				So(conn.WriteJSON(map[string]any{"type": "clear", "slot": 7}), ShouldBeNil)
				So(readFrame(conn).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When starting with empty slots", func() {
			readFrame(conn)
			So(conn.WriteJSON(map[string]any{"type": "start"}), ShouldBeNil)

			Convey("Then an invalid transition error should be sent", func() {
				f := readFrame(conn)
				So(f.Type, ShouldEqual, "error")
				So(f.Code, ShouldEqual, "invalid_transition")
			})
		})

		Convey("When picking an unknown hero or sending an unknown command", func() {
			readFrame(conn)
			So(conn.WriteJSON(map[string]any{"type": "pick", "hero_id": 42}), ShouldBeNil)
			So(readFrame(conn).Code, ShouldEqual, "not_found")
			So(conn.WriteJSON(map[string]any{"type": "dance"}), ShouldBeNil)
			So(readFrame(conn).Code, ShouldEqual, "bad_request")
		})
	})
}
