package employees

// AvailableTechnicians filters to technicians that can take new work,
// preserving the input order.
func AvailableTechnicians(list []Employee) []Employee {
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if e.AcceptsWork() {
			out = append(out, e)
		}
	}
	return out
}

// RecommendedTechnician returns the eligible technician with the lowest
// current workload. Ties keep the earliest candidate in the input order.
// Returns nil when nobody can take work.
func RecommendedTechnician(list []Employee) *Employee {
	var best *Employee
	for i := range list {
		e := &list[i]
		if !e.AcceptsWork() {
			continue
		}
		if best == nil || e.CurrentWorkload < best.CurrentWorkload {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}
