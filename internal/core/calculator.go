package core

// Average returns the arithmetic mean of grades. ok is false for an empty list.
func Average(grades []float64) (avg float64, ok bool) {
	if len(grades) == 0 {
		return 0, false
	}
	var sum float64
	for _, g := range grades {
		sum += g
	}
	return sum / float64(len(grades)), true
}

// Contribution is a category average scaled by its weight.
func Contribution(avg, weight float64) float64 {
	return avg * (weight / 100)
}

// NeededAverage returns the average required across the remaining weight to
// reach target from current. ok is false when nothing is left to grade.
// The result is deliberately not clamped: a negative value means the target
// is already secured, above 100 means it is out of reach.
func NeededAverage(target, current, remainingWeight float64) (needed float64, ok bool) {
	if remainingWeight <= 0 {
		return 0, false
	}
	return (target - current) / (remainingWeight / 100), true
}

// Summarize computes the weighted score of a course and, when a target is
// set, the average still needed in the ungraded categories.
func Summarize(c *Course) CourseSummary {
	var s CourseSummary
	if c == nil {
		return s
	}
	if c.Target != nil {
		t := *c.Target
		s.Target = &t
	}

	for _, name := range c.CategoryNames() {
		cat := c.Categories[name]
		cs := CategorySummary{
			Name:   name,
			Weight: cat.Weight,
			Grades: append([]float64(nil), cat.Grades...),
		}
		s.TotalWeight += cat.Weight
		if avg, ok := Average(cat.Grades); ok {
			cs.Graded = true
			cs.Average = avg
			cs.Contribution = Contribution(avg, cat.Weight)
			s.CurrentScore += cs.Contribution
			s.GradedWeight += cat.Weight
		} else {
			s.RemainingWeight += cat.Weight
		}
		s.Categories = append(s.Categories, cs)
	}

	if s.Target != nil {
		if needed, ok := NeededAverage(*s.Target, s.CurrentScore, s.RemainingWeight); ok {
			s.Needed = &needed
		}
	}
	return s
}
