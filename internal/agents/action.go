package agents

import "fmt"

// Kind enumerates the action kinds a unit can pursue.
type Kind uint8

const (
	KindWander Kind = iota
	KindEat
	KindBringToHouse
	KindEatFromStorage
	KindBuild
	KindSell
	KindBuy
	KindSteal
	KindFight
	KindPlant
	KindHarvest
)

func (k Kind) String() string {
	switch k {
	case KindWander:
		return "wander"
	case KindEat:
		return "eat"
	case KindBringToHouse:
		return "bring_to_house"
	case KindEatFromStorage:
		return "eat_from_storage"
	case KindBuild:
		return "build"
	case KindSell:
		return "sell"
	case KindBuy:
		return "buy"
	case KindSteal:
		return "steal"
	case KindFight:
		return "fight"
	case KindPlant:
		return "plant"
	case KindHarvest:
		return "harvest"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// status is the outcome of one task step.
type status uint8

const (
	running   status = iota // Keep the action on top
	done                    // Goal reached; pop
	abandoned               // Cannot progress; pop
)

// Task is one action kind's state machine. The set of tasks is closed:
// each is a pointer to a struct in this package holding only the fields
// its kind needs plus its own progress.
type Task interface {
	Kind() Kind
	step(u *Unit, env *Env) status
}

func (*Wander) Kind() Kind         { return KindWander }
func (*Eat) Kind() Kind            { return KindEat }
func (*BringToHouse) Kind() Kind   { return KindBringToHouse }
func (*EatFromStorage) Kind() Kind { return KindEatFromStorage }
func (*Build) Kind() Kind          { return KindBuild }
func (*Sell) Kind() Kind           { return KindSell }
func (*Buy) Kind() Kind            { return KindBuy }
func (*Steal) Kind() Kind          { return KindSteal }
func (*Fight) Kind() Kind          { return KindFight }
func (*Plant) Kind() Kind          { return KindPlant }
func (*Harvest) Kind() Kind        { return KindHarvest }
