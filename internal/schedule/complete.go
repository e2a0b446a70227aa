package schedule

// Complete fills an incomplete schedule from the default catalog so that the
// result always holds exactly one DaySchedule per weekday.
//
// Missing weekdays receive the entire catalog in catalog order. Days with
// fewer than 50 entries are appended catalog entries not already present on
// that day, in catalog order, until they reach 50 or the catalog is
// exhausted. Existing entries are never reordered or removed, so completing
// an already-complete schedule is a no-op.
func Complete(in CompleteSchedule) CompleteSchedule {
	out := in
	out.Days = make([]DaySchedule, len(in.Days))
	copy(out.Days, in.Days)

	present := make(map[string]bool, len(out.Days))
	for _, d := range out.Days {
		present[d.Day] = true
	}
	for _, day := range dayNames {
		if !present[day] {
			out.Days = append(out.Days, DaySchedule{
				Day:   day,
				Times: append([]string(nil), DefaultCatalog...),
			})
		}
	}

	for i, d := range out.Days {
		if len(d.Times) >= SlotsPerDay {
			continue
		}
		have := make(map[string]bool, len(d.Times))
		for _, t := range d.Times {
			have[t] = true
		}
		times := append([]string(nil), d.Times...)
		for _, t := range DefaultCatalog {
			if len(times) >= SlotsPerDay {
				break
			}
			if !have[t] {
				times = append(times, t)
			}
		}
		out.Days[i].Times = times
	}
	return out
}
