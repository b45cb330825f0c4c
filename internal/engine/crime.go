// Crime bookkeeping: thefts are reported once and counted.
package engine

// processCrime reports the thefts committed this tick and clears each
// thief's marker. The victim keeps its grievance until it fights.
func (s *Simulation) processCrime() {
	for _, u := range s.Units {
		if u.JustStoleFrom == 0 {
			continue
		}
		s.Stats.Thefts++
		s.log.Info("theft reported", "thief", u.ID, "victim", u.JustStoleFrom, "tick", s.LastTick)
		u.JustStoleFrom = 0
	}
}
