package match

// FieldBoard is the optional spatial index of §3: a grid over the
// pitch storing per-cell occupancy, two pressure heatmaps and an
// xG-zone table. Uses fixed-size cell arrays and a buffer-reuse query
// pattern over a 105x68m pitch occupancy/pressure/xG board.
const (
	BoardCellSize = 3.5 // metres; ~30x20 cells over a 105x68 pitch
	BoardCols     = 30
	BoardRows     = 20
)

type FieldBoard struct {
	Occupancy       [BoardCols * BoardRows]int
	PressureHome    [BoardCols * BoardRows]float64 // pressure against home
	PressureAway    [BoardCols * BoardRows]float64
	XGZone          [BoardCols * BoardRows]float64

	ticksSincePressure int
	ticksSinceXG       int
}

func NewFieldBoard() *FieldBoard {
	fb := &FieldBoard{}
	fb.seedXGZones()
	return fb
}

func boardCellIdx(x, y float64) int {
	cx := int(x / BoardCellSize)
	cy := int(y / BoardCellSize)
	if cx < 0 {
		cx = 0
	} else if cx >= BoardCols {
		cx = BoardCols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= BoardRows {
		cy = BoardRows - 1
	}
	return cy*BoardCols + cx
}

// ClearOccupancy resets per-cell counts, keeping allocated arrays.
func (fb *FieldBoard) ClearOccupancy() {
	for i := range fb.Occupancy {
		fb.Occupancy[i] = 0
	}
}

// UpdateOccupancy is run every tick (§3: "occupancy every tick").
func (fb *FieldBoard) UpdateOccupancy(positions []Vec2) {
	fb.ClearOccupancy()
	for _, p := range positions {
		fb.Occupancy[boardCellIdx(p.X, p.Y)]++
	}
}

// UpdatePressure recomputes the two pressure heatmaps every 3 ticks
// (§3) from the current occupancy of each side's players near each
// cell.
func (fb *FieldBoard) UpdatePressure(tick int, homePositions, awayPositions []Vec2) {
	fb.ticksSincePressure++
	if fb.ticksSincePressure < 3 {
		return
	}
	fb.ticksSincePressure = 0
	for i := range fb.PressureHome {
		fb.PressureHome[i] *= 0.6
		fb.PressureAway[i] *= 0.6
	}
	for _, p := range awayPositions {
		fb.PressureHome[boardCellIdx(p.X, p.Y)] += 1.0
	}
	for _, p := range homePositions {
		fb.PressureAway[boardCellIdx(p.X, p.Y)] += 1.0
	}
}

// UpdateXGZones recomputes the xG-zone table every 10 ticks (§3). The
// static seed values decay distance from the right-hand goal mouth;
// callers convert to team view with ToTeamView before lookup.
func (fb *FieldBoard) UpdateXGZones(tick int) {
	fb.ticksSinceXG++
	if fb.ticksSinceXG < 10 {
		return
	}
	fb.ticksSinceXG = 0
	fb.seedXGZones()
}

func (fb *FieldBoard) seedXGZones() {
	goal := Vec2{PitchLength, PitchWidth / 2}
	for cy := 0; cy < BoardRows; cy++ {
		for cx := 0; cx < BoardCols; cx++ {
			center := Vec2{(float64(cx) + 0.5) * BoardCellSize, (float64(cy) + 0.5) * BoardCellSize}
			d := center.Dist(goal)
			fb.XGZone[cy*BoardCols+cx] = clampF(1.0-d/PitchLength, 0.01, 0.5)
		}
	}
}

// LaneHint returns the §4.5 grid-hint interception risk sample for a
// pass lane's midpoint, derived from the opposing team's pressure
// heatmap at that cell.
func (fb *FieldBoard) LaneHint(midpoint Vec2, passerIsHome bool) float64 {
	idx := boardCellIdx(midpoint.X, midpoint.Y)
	if passerIsHome {
		return clampF(fb.PressureHome[idx]/6.0, 0, 1)
	}
	return clampF(fb.PressureAway[idx]/6.0, 0, 1)
}

// XGZoneLevel returns the zone-based xG prior used by Gate A's
// DecisionContext.XGZoneLevel.
func (fb *FieldBoard) XGZoneLevel(pos Vec2) float64 {
	return fb.XGZone[boardCellIdx(pos.X, pos.Y)]
}
