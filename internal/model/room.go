package model

// BasicRoom is a value-type Room used by the simulator and tests.
type BasicRoom struct {
	RoomID     string
	MagicBonus bool
	Sunlit     bool
	Forest     bool
}

func (r *BasicRoom) ID() string          { return r.RoomID }
func (r *BasicRoom) HasMagicBonus() bool { return r.MagicBonus }
func (r *BasicRoom) IsSunlit() bool      { return r.Sunlit }
func (r *BasicRoom) IsForest() bool      { return r.Forest }
