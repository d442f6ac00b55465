package sim

import (
	"fmt"
	"sort"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/wave"
)

// LaneSpec places one transmitter and its receiver. The transmitter sits at
// Config.TransmitterX on the lane's Y.
type LaneSpec struct {
	Y          float64
	ReceiverX  float64
	Movement   Movement
	SpeedScale float64
}

type Scenario struct {
	Name        string
	Description string
	Lanes       []LaneSpec
}

var scenarios = map[string]Scenario{
	"doppler": {
		Name:        "doppler",
		Description: "stationary, approaching and receding receivers",
		Lanes: []LaneSpec{
			{Y: 200, ReceiverX: -300, Movement: Stationary},
			{Y: 0, ReceiverX: -300, Movement: Right, SpeedScale: 1},
			{Y: -200, ReceiverX: 100, Movement: Left, SpeedScale: 1},
		},
	},
	"static": {
		Name:        "static",
		Description: "a single stationary receiver",
		Lanes: []LaneSpec{
			{Y: 0, ReceiverX: -300, Movement: Stationary},
		},
	},
	"approach": {
		Name:        "approach",
		Description: "two receivers closing on their transmitters at different speeds",
		Lanes: []LaneSpec{
			{Y: 100, ReceiverX: -300, Movement: Right, SpeedScale: 1},
			{Y: -100, ReceiverX: -300, Movement: Right, SpeedScale: 0.5},
		},
	},
}

// LookupScenario returns the scenario registered under name.
func LookupScenario(name string) (Scenario, error) {
	scenario, ok := scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownScenario, name, ScenarioNames())
	}
	return scenario, nil
}

func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpawnScenario spawns the transmitters and receivers of cfg.Scenario through
// spawn, which is either Storage.Spawn or Commands.Spawn.
func SpawnScenario(spawn func(components ...any), cfg Config) error {
	scenario, err := LookupScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	for i, lane := range scenario.Lanes {
		spawn(transmitterComponents(i, lane, cfg)...)
		spawn(receiverComponents(i, lane, cfg)...)
	}
	return nil
}

func transmitterComponents(index int, lane LaneSpec, cfg Config) []any {
	return []any{
		Transform{X: cfg.TransmitterX, Y: lane.Y, Z: ZBody},
		GlobalTransform{X: cfg.TransmitterX, Y: lane.Y},
		Sprite{
			Shape:  ShapeTriangle,
			Color:  TransmitterColor,
			Width:  cfg.TransmitterSize,
			Height: cfg.TransmitterSize,
		},
		Transmitter{SpawnTimer: ecs.NewTimer(cfg.SpawnInterval, ecs.TimerRepeating)},
		Lane{Index: index, Movement: lane.Movement},
	}
}

func receiverComponents(index int, lane LaneSpec, cfg Config) []any {
	mover := Mover{Direction: lane.Movement.Direction(), Speed: cfg.ReceiverSpeed * lane.SpeedScale}

	components := []any{
		Transform{X: lane.ReceiverX, Y: lane.Y, Z: ZBody},
		GlobalTransform{X: lane.ReceiverX, Y: lane.Y},
		Sprite{
			Shape:  ShapeRect,
			Color:  ReceiverColor,
			Width:  cfg.ReceiverHeight(),
			Height: cfg.ReceiverWidth(),
		},
		Receiver{
			Lane:              index,
			ExpectedFrequency: wave.ObservedFrequency(cfg.Wave.Frequency, cfg.Wave.Speed, mover.Velocity()),
		},
		Lane{Index: index, Movement: lane.Movement},
	}
	if lane.Movement != Stationary {
		components = append(components, mover)
	}
	return components
}
