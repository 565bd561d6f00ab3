package render

// ListJoin is the outcome of reconciling a displayed list against a new one
// position by position: Enter slots get a new element, Update slots reuse the
// element already at that position, Exit slots are removed.
type ListJoin struct {
	Enter  []int    `json:"enter"`
	Update []int    `json:"update"`
	Exit   []int    `json:"exit"`
	Result []string `json:"result"`
}

// Changed reports how many reused elements had their text replaced.
func (j ListJoin) Changed(prev []string) int {
	n := 0
	for _, i := range j.Update {
		if prev[i] != j.Result[i] {
			n++
		}
	}
	return n
}

// JoinByPosition binds next to prev by index.
func JoinByPosition(prev, next []string) ListJoin {
	join := ListJoin{Result: append([]string(nil), next...)}
	for i := range next {
		if i < len(prev) {
			join.Update = append(join.Update, i)
		} else {
			join.Enter = append(join.Enter, i)
		}
	}
	for i := len(next); i < len(prev); i++ {
		join.Exit = append(join.Exit, i)
	}
	return join
}
