package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/hive/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the colony state at one step, written when a bookmark fires.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Step    int   `json:"step"`

	WorldRows int `json:"world_rows"`
	WorldCols int `json:"world_cols"`

	Foragers []ForagerState `json:"foragers"`
	Flowers  []FlowerState  `json:"flowers"`
	Combs    []CombState    `json:"combs"`
	Queen    QueenState     `json:"queen"`
	Wasps    []WaspState    `json:"wasps"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ForagerState is one forager in a snapshot.
type ForagerState struct {
	ID         string `json:"id"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	InHive     bool   `json:"in_hive"`
	Carrying   bool   `json:"carrying"`
	Depositing bool   `json:"depositing"`
	Rest       int    `json:"rest"`
	Age        int    `json:"age"`
	MaxAge     int    `json:"max_age"`
	Alive      bool   `json:"alive"`

	Lifetime *LifetimeJSON `json:"lifetime,omitempty"`
}

// FlowerState is one flower in a snapshot.
type FlowerState struct {
	ID       string `json:"id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Golden   bool   `json:"golden"`
	Quantity int    `json:"quantity"`
	RegrowIn int    `json:"regrow_in"`
}

// CombState is one comb in a snapshot.
type CombState struct {
	ID    string `json:"id"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Level int    `json:"level"`
	Full  bool   `json:"full"`
}

// QueenState is the queen in a snapshot.
type QueenState struct {
	Age     int  `json:"age"`
	MaxAge  int  `json:"max_age"`
	SpawnIn int  `json:"spawn_in"`
	Alive   bool `json:"alive"`
}

// WaspState is one wasp in a snapshot.
type WaspState struct {
	ID     string `json:"id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Alive  bool   `json:"alive"`
	Manual bool   `json:"manual"`
}

// LifetimeJSON is the JSON-serializable form of LifetimeStats.
type LifetimeJSON struct {
	BirthTick   int        `json:"birth_tick"`
	DeathTick   int        `json:"death_tick,omitempty"`
	Cause       DeathCause `json:"cause,omitempty"`
	Trips       int        `json:"trips"`
	Collections int        `json:"collections"`
	NectarValue int        `json:"nectar_value"`
	Deposits    int        `json:"deposits"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeJSON{
		BirthTick:   ls.BirthTick,
		DeathTick:   ls.DeathTick,
		Cause:       ls.Cause,
		Trips:       ls.Trips,
		Collections: ls.Collections,
		NectarValue: ls.NectarValue,
		Deposits:    ls.Deposits,
	}
}

// NewForagerState copies a forager into its snapshot form.
func NewForagerState(f *components.Forager, lifetime *LifetimeStats) ForagerState {
	return ForagerState{
		ID:         f.ID,
		Row:        f.Pos.Row,
		Col:        f.Pos.Col,
		InHive:     f.InHive,
		Carrying:   f.Carrying,
		Depositing: f.Depositing,
		Rest:       f.Rest,
		Age:        f.Age,
		MaxAge:     f.MaxAge,
		Alive:      f.Alive,
		Lifetime:   lifetime.ToJSON(),
	}
}

// NewFlowerState copies a flower into its snapshot form.
func NewFlowerState(f *components.Flower) FlowerState {
	return FlowerState{ID: f.ID, Row: f.Pos.Row, Col: f.Pos.Col, Golden: f.Golden, Quantity: f.Quantity, RegrowIn: f.RegrowIn}
}

// NewCombState copies a comb into its snapshot form.
func NewCombState(c *components.Comb) CombState {
	return CombState{ID: c.ID, Row: c.Pos.Row, Col: c.Pos.Col, Level: c.Level, Full: c.Full}
}

// NewWaspState copies a wasp into its snapshot form.
func NewWaspState(w *components.Wasp) WaspState {
	return WaspState{ID: w.ID, Row: w.Pos.Row, Col: w.Pos.Col, Alive: w.Alive, Manual: w.Manual}
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Step)
	if snapshot.Bookmark != nil {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Step, snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
