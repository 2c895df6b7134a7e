package learning

import (
	"errors"
	"testing"

	"github.com/abhisek/flashcarding/internal/deck"
)

type fixture struct {
	store   *deck.Store
	setID   string
	cardIDs []string
}

func newFixture(t *testing.T, terms ...string) fixture {
	t.Helper()
	st := deck.New()
	set, err := st.CreateSet("S")
	if err != nil {
		t.Fatalf("create set: %v", err)
	}
	l, err := st.AddLecture(set.ID, "L")
	if err != nil {
		t.Fatalf("add lecture: %v", err)
	}
	f := fixture{store: st, setID: set.ID}
	for _, term := range terms {
		c, err := st.AddCard(l.ID, term, "about "+term)
		if err != nil {
			t.Fatalf("add card: %v", err)
		}
		f.cardIDs = append(f.cardIDs, c.ID)
	}
	return f
}

func (f fixture) stats(t *testing.T, cardID string) deck.CardStats {
	t.Helper()
	c, err := f.store.Snapshot().Card(cardID)
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	return c.Stats
}

func TestClamp(t *testing.T) {
	tests := []struct {
		cursor, delta, n, want int
	}{
		{0, -100, 5, 0},
		{0, 100, 5, 4},
		{2, 1, 5, 3},
		{4, 1, 5, 4},
		{0, 1, 0, 0},
		{0, -1, 1, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.cursor, tt.delta, tt.n); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.cursor, tt.delta, tt.n, got, tt.want)
		}
	}
}

func TestMoveCursor_Clamps(t *testing.T) {
	f := newFixture(t, "a", "b", "c", "d", "e")
	e := New(f.store)
	run, err := e.Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	run, err = e.MoveCursor(run.ID, -100)
	if err != nil || run.Cursor != 0 {
		t.Fatalf("move -100: cursor=%d err=%v", run.Cursor, err)
	}
	run, err = e.MoveCursor(run.ID, 100)
	if err != nil || run.Cursor != 4 {
		t.Fatalf("move +100: cursor=%d err=%v", run.Cursor, err)
	}
}

func TestStart(t *testing.T) {
	f := newFixture(t, "a", "b")
	e := New(f.store)

	run, err := e.Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(run.Order) != 2 || run.Order[0] != f.cardIDs[0] || run.Cursor != 0 || len(run.Events) != 0 {
		t.Fatalf("run = %+v", run)
	}
	if s := f.stats(t, f.cardIDs[0]); s.Views != 1 || s.LastSeen == nil {
		t.Errorf("first card stats = %+v, want one view", s)
	}
	if s := f.stats(t, f.cardIDs[1]); s.Views != 0 {
		t.Errorf("second card stats = %+v, want untouched", s)
	}
}

func TestStart_EmptyScope(t *testing.T) {
	f := newFixture(t)
	run, err := New(f.store).Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(run.Order) != 0 || run.Cursor != 0 || !Done(run) {
		t.Fatalf("run = %+v", run)
	}
	if _, ok := Current(f.store.Snapshot(), run); ok {
		t.Error("empty run has no current card")
	}
}

func TestStart_UnknownSet(t *testing.T) {
	f := newFixture(t)
	if _, err := New(f.store).Start("missing", deck.AllLectures); !errors.Is(err, deck.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFlipNextPrev(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	e := New(f.store)
	run, err := e.Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	run, _ = e.Prev(run.ID) // no-op at the first card
	if run.Cursor != 0 || len(run.Events) != 0 {
		t.Fatalf("prev at start: %+v", run)
	}

	run, _ = e.Flip(run.ID)
	if s := f.stats(t, f.cardIDs[0]); s.Flips != 1 {
		t.Errorf("flips = %d, want 1", s.Flips)
	}

	run, _ = e.Next(run.ID)
	run, _ = e.Next(run.ID)
	if run.Cursor != 2 || !Done(run) {
		t.Fatalf("cursor = %d, want 2", run.Cursor)
	}
	run, _ = e.Next(run.ID) // no-op at the last card
	if run.Cursor != 2 {
		t.Fatalf("next at end moved cursor to %d", run.Cursor)
	}

	run, err = e.Prev(run.ID)
	if err != nil {
		t.Fatalf("prev: %v", err)
	}
	if run.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", run.Cursor)
	}

	wantEvents := []struct {
		typ  deck.EventType
		card string
	}{
		{deck.EventFlip, f.cardIDs[0]},
		{deck.EventNext, f.cardIDs[0]},
		{deck.EventNext, f.cardIDs[1]},
		{deck.EventPrev, f.cardIDs[2]},
	}
	if len(run.Events) != len(wantEvents) {
		t.Fatalf("events = %+v", run.Events)
	}
	for i, w := range wantEvents {
		if run.Events[i].Type != w.typ || run.Events[i].CardID != w.card {
			t.Errorf("event %d = %+v, want %s on %s", i, run.Events[i], w.typ, w.card)
		}
	}

	// b was viewed on the way forward and again on the way back.
	if s := f.stats(t, f.cardIDs[1]); s.Views != 2 {
		t.Errorf("views of b = %d, want 2", s.Views)
	}

	cur, ok := Current(f.store.Snapshot(), run)
	if !ok || cur.ID != f.cardIDs[1] {
		t.Errorf("current = %v, want %s", cur, f.cardIDs[1])
	}
}

func TestLogEvent(t *testing.T) {
	f := newFixture(t, "a")
	e := New(f.store)
	run, err := e.Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := e.LogEvent(run.ID, deck.LearningEvent{Type: deck.EventView, CardID: f.cardIDs[0]}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := e.LogEvent(run.ID, deck.LearningEvent{Type: "skip"}); !errors.Is(err, deck.ErrValidation) {
		t.Fatalf("bad type: got %v", err)
	}
	if err := e.LogEvent("missing", deck.LearningEvent{Type: deck.EventView}); !errors.Is(err, deck.ErrNotFound) {
		t.Fatalf("unknown run: got %v", err)
	}

	got, _ := f.store.Snapshot().LearningRun(run.ID)
	if len(got.Events) != 1 || got.Events[0].T.IsZero() {
		t.Errorf("events = %+v", got.Events)
	}
}

func TestBumpStats(t *testing.T) {
	f := newFixture(t, "a")
	e := New(f.store)
	if err := e.BumpStats(f.cardIDs[0], func(s *deck.CardStats) { s.Flips++ }); err != nil {
		t.Fatalf("bump flips: %v", err)
	}
	if err := e.BumpStats(f.cardIDs[0], func(s *deck.CardStats) { s.Views += 2 }); err != nil {
		t.Fatalf("bump views: %v", err)
	}
	if got := f.stats(t, f.cardIDs[0]); got.Flips != 1 || got.Views != 2 {
		t.Errorf("stats = %+v, want flips 1 views 2", got)
	}
	if err := e.BumpStats("missing", func(*deck.CardStats) {}); !errors.Is(err, deck.ErrNotFound) {
		t.Errorf("unknown card: got %v", err)
	}
}

func TestDeletedCardIsSkipped(t *testing.T) {
	f := newFixture(t, "a", "b")
	e := New(f.store)
	run, err := e.Start(f.setID, deck.AllLectures)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.store.DeleteCard(f.cardIDs[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	run, err = e.Next(run.ID)
	if err != nil {
		t.Fatalf("next onto deleted card: %v", err)
	}
	if _, ok := Current(f.store.Snapshot(), run); ok {
		t.Error("deleted card reported as current")
	}
	if _, err := e.Flip(run.ID); err != nil {
		t.Fatalf("flip deleted card: %v", err)
	}
}
