package categories

import "sort"

// Item is anything that can be grouped: a skill with a category id.
type Item interface {
	CategoryID() string
}

// Bucket is one category and the skills assigned to it.
type Bucket[T Item] struct {
	Category Info
	Skills   []T
}

// Group assigns every skill to a category and returns the non-empty buckets
// in ascending priority order.
//
// When known is empty (skills came from the remote registry rather than a
// local tree) categories are synthesized from the skills' ids in first-seen
// order. A skill whose id matches no category gets a new category at
// DefaultPriority instead of being dropped. Skills with no id land in the
// uncategorized bucket. Empty buckets, uncategorized included, are omitted.
func Group[T Item](known []Info, skills []T) []Bucket[T] {
	var order []string
	byID := make(map[string]*Bucket[T])

	add := func(c Info) {
		if _, ok := byID[c.ID]; ok {
			return
		}
		byID[c.ID] = &Bucket[T]{Category: c}
		order = append(order, c.ID)
	}

	if len(known) == 0 {
		index := 0
		for _, s := range skills {
			id := s.CategoryID()
			if id == "" || id == UncategorizedID {
				continue
			}
			if _, ok := byID[id]; ok {
				continue
			}
			add(synthesize(id, index))
			index++
		}
	} else {
		for _, c := range known {
			add(c)
		}
	}
	add(Uncategorized())

	for _, s := range skills {
		id := s.CategoryID()
		if id == "" {
			id = UncategorizedID
		}
		b, ok := byID[id]
		if !ok {
			add(synthesize(id, DefaultPriority))
			b = byID[id]
		}
		b.Skills = append(b.Skills, s)
	}

	result := make([]Bucket[T], 0, len(order))
	for _, id := range order {
		if b := byID[id]; len(b.Skills) > 0 {
			result = append(result, *b)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Category.Priority < result[j].Category.Priority
	})
	return result
}

// Flatten returns the skills of all buckets in bucket order.
func Flatten[T Item](buckets []Bucket[T]) []T {
	var out []T
	for _, b := range buckets {
		out = append(out, b.Skills...)
	}
	return out
}

// GroupSkills groups skills using the categories discovered under r.Root.
func GroupSkills[T Item](r *Resolver, skills []T) ([]Bucket[T], error) {
	known, err := r.List()
	if err != nil {
		return nil, err
	}
	return Group(known, skills), nil
}
