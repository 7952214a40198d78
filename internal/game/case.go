package game

// Solution is the fixed answer tuple for a case. The server never interprets
// the identifiers, it only compares them for equality; the case-data loader
// owns their legality.
type Solution struct {
	Suspect string
	Weapon  string
	Room    string
}

func (s Solution) Matches(suspect, weapon, room string) bool {
	return suspect == s.Suspect && weapon == s.Weapon && room == s.Room
}
