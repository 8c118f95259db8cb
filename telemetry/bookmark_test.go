package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstDepositOnce(t *testing.T) {
	bd := NewBookmarkDetector(10, 3)

	if got := bd.Check(StepStats{Step: 1, BeesAlive: 10, QueenAlive: true}); hasBookmark(got, BookmarkFirstDeposit) {
		t.Fatal("first_deposit before any deposit")
	}
	if got := bd.Check(StepStats{Step: 2, Deposits: 1, BeesAlive: 10, QueenAlive: true}); !hasBookmark(got, BookmarkFirstDeposit) {
		t.Error("expected first_deposit bookmark")
	}
	if got := bd.Check(StepStats{Step: 3, Deposits: 2, BeesAlive: 10, QueenAlive: true}); hasBookmark(got, BookmarkFirstDeposit) {
		t.Error("first_deposit fired twice")
	}
}

func TestBookmarkDetector_CombsFilling(t *testing.T) {
	bd := NewBookmarkDetector(10, 2)

	bd.Check(StepStats{Step: 1, BeesAlive: 5, QueenAlive: true})

	got := bd.Check(StepStats{Step: 2, CombsFull: 1, BeesAlive: 5, QueenAlive: true})
	if !hasBookmark(got, BookmarkCombFilled) || hasBookmark(got, BookmarkAllCombsFull) {
		t.Errorf("step 2 bookmarks = %v", got)
	}

	got = bd.Check(StepStats{Step: 3, CombsFull: 2, BeesAlive: 5, QueenAlive: true})
	if !hasBookmark(got, BookmarkCombFilled) || !hasBookmark(got, BookmarkAllCombsFull) {
		t.Errorf("step 3 bookmarks = %v", got)
	}

	got = bd.Check(StepStats{Step: 4, CombsFull: 2, BeesAlive: 5, QueenAlive: true})
	if len(got) != 0 {
		t.Errorf("steady state produced %v", got)
	}
}

func TestBookmarkDetector_QueenAndCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10, 3)

	bd.Check(StepStats{Step: 1, BeesAlive: 2, QueenAlive: true, Collections: 1})

	got := bd.Check(StepStats{Step: 2, BeesAlive: 1, QueenAlive: false, Collections: 1})
	if !hasBookmark(got, BookmarkQueenDied) {
		t.Error("expected queen_died bookmark")
	}

	got = bd.Check(StepStats{Step: 3, BeesAlive: 0, Kills: 1, Collections: 1})
	if !hasBookmark(got, BookmarkColonyCollapse) {
		t.Error("expected colony_collapse bookmark")
	}
	if hasBookmark(got, BookmarkQueenDied) {
		t.Error("queen_died fired twice")
	}
}

func TestBookmarkDetector_ForageDrought(t *testing.T) {
	bd := NewBookmarkDetector(5, 3)

	fired := 0
	for step := 1; step <= 12; step++ {
		stats := StepStats{Step: step, BeesAlive: 4, BeesOutside: 4, QueenAlive: true}
		if step == 8 {
			stats.Collections = 1
		}
		if hasBookmark(bd.Check(stats), BookmarkForageDrought) {
			fired++
			if step != 5 && step != 13 {
				t.Errorf("drought at step %d", step)
			}
		}
	}
	// Steps 1-5 dry, then a collection at 8 re-arms; 9-12 is too short
	if fired != 1 {
		t.Errorf("drought fired %d times, want 1", fired)
	}
}
