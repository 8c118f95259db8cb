package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDeposit   BookmarkType = "first_deposit"
	BookmarkCombFilled     BookmarkType = "comb_filled"
	BookmarkAllCombsFull   BookmarkType = "all_combs_full"
	BookmarkQueenDied      BookmarkType = "queen_died"
	BookmarkColonyCollapse BookmarkType = "colony_collapse"
	BookmarkForageDrought  BookmarkType = "forage_drought"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Step        int          `csv:"step" json:"step"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a run.
type BookmarkDetector struct {
	combs int

	// Rolling history (circular buffer)
	history     []StepStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	prev      StepStats
	seenFirst bool // a previous step exists
	deposited bool
	allFull   bool
	queenDead bool
	collapsed bool
	inDrought bool
}

// NewBookmarkDetector creates a detector for a hive with the given number
// of combs. historySize is the drought window in steps.
func NewBookmarkDetector(historySize, combs int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		combs:       combs,
		history:     make([]StepStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
// Every type except comb_filled and forage_drought fires at most once.
func (bd *BookmarkDetector) Check(stats StepStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(t BookmarkType, format string, args ...any) {
		bookmarks = append(bookmarks, Bookmark{Type: t, Step: stats.Step, Description: fmt.Sprintf(format, args...)})
	}

	if !bd.deposited && stats.Deposits > 0 {
		bd.deposited = true
		add(BookmarkFirstDeposit, "First nectar stored after %d steps", stats.Step)
	}

	if bd.seenFirst && stats.CombsFull > bd.prev.CombsFull {
		add(BookmarkCombFilled, "%d of %d combs full", stats.CombsFull, bd.combs)
	}

	if !bd.allFull && bd.combs > 0 && stats.CombsFull >= bd.combs {
		bd.allFull = true
		add(BookmarkAllCombsFull, "All %d combs full, %d loads delivered", bd.combs, stats.Nectar)
	}

	if !bd.queenDead && bd.seenFirst && bd.prev.QueenAlive && !stats.QueenAlive {
		bd.queenDead = true
		add(BookmarkQueenDied, "Queen died with %d foragers alive", stats.BeesAlive)
	}

	if !bd.collapsed && bd.seenFirst && bd.prev.BeesAlive > 0 && stats.BeesAlive == 0 {
		bd.collapsed = true
		add(BookmarkColonyCollapse, "Last forager died (%d killed this step)", stats.Kills)
	}

	bd.addToHistory(stats)
	if b := bd.checkDrought(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.prev = stats
	bd.seenFirst = true
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats StepStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// checkDrought fires when foragers have been out for a full window without
// a single collection. It re-arms once a collection happens.
func (bd *BookmarkDetector) checkDrought(stats StepStats) *Bookmark {
	if stats.Collections > 0 {
		bd.inDrought = false
		return nil
	}
	if bd.inDrought || !bd.historyFull {
		return nil
	}

	for _, h := range bd.history {
		if h.Collections > 0 || h.BeesOutside == 0 {
			return nil
		}
	}

	bd.inDrought = true
	return &Bookmark{
		Type:        BookmarkForageDrought,
		Step:        stats.Step,
		Description: fmt.Sprintf("No nectar collected for %d steps, %d flowers left", bd.historySize, stats.Flowers),
	}
}
