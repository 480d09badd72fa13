package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration       time.Duration
	Simulations    int
	TerminalVisits int // Simulations that ended on a finished game
	IsTreeReset    bool
	TreeSize       int
}

type MoveMetric struct {
	Step   int
	Player int // Seat, 0 moves first
	Action int
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID
	Winner        int // AgentConfig.ID, -1 on a draw
	Score         int // Disk difference from the starting agent's side
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
	Passes        int
}

type Collector interface {
	Start()
	SetTreeReset(value bool)
	AddSimulation()
	AddTerminalVisit()
	Complete(treeSize int) SearchMetric
}

type collector struct {
	startTime      time.Time
	simulations    atomic.Int32
	terminalVisits atomic.Int32
	isTreeReset    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start clears the counters of the previous search.
func (m *collector) Start() {
	m.startTime = time.Now()
	m.simulations.Store(0)
	m.terminalVisits.Store(0)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) AddTerminalVisit() {
	m.terminalVisits.Add(1)
}

func (m *collector) Complete(treeSize int) SearchMetric {
	return SearchMetric{
		Duration:       time.Since(m.startTime),
		Simulations:    int(m.simulations.Load()),
		TerminalVisits: int(m.terminalVisits.Load()),
		IsTreeReset:    m.isTreeReset.Load(),
		TreeSize:       treeSize,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                             {}
func (m *dummyCollector) SetTreeReset(value bool)            {}
func (m *dummyCollector) AddSimulation()                     {}
func (m *dummyCollector) AddTerminalVisit()                  {}
func (m *dummyCollector) Complete(treeSize int) SearchMetric { return SearchMetric{} }
