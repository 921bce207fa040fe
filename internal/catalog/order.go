package catalog

import "math/rand"

// Order steps through n items for the detail view. Stepping wraps at both
// ends. It is only used from the UI's single update loop.
type Order struct {
	n            int
	current      int
	shuffleOrder []int // maps shuffle position to item index
	shufflePos   int
	shuffled     bool
	intn         func(int) int
}

// NewOrder returns an order over n items starting at item 0.
func NewOrder(n int) *Order {
	return &Order{n: n, intn: rand.Intn}
}

// Len returns the number of items.
func (o *Order) Len() int {
	return o.n
}

// Current returns the current item index, or -1 if empty.
func (o *Order) Current() int {
	if o.n == 0 {
		return -1
	}
	return o.current
}

// Jump makes item i current. Also syncs the shuffle position when shuffle is
// active.
func (o *Order) Jump(i int) bool {
	if i < 0 || i >= o.n {
		return false
	}
	o.current = i
	if o.shuffled {
		for pos, idx := range o.shuffleOrder {
			if idx == i {
				o.shufflePos = pos
				break
			}
		}
	}
	return true
}

// Next moves to the following item and returns it.
func (o *Order) Next() int {
	return o.step(1)
}

// Previous moves to the preceding item and returns it.
func (o *Order) Previous() int {
	return o.step(-1)
}

func (o *Order) step(d int) int {
	if o.n == 0 {
		return -1
	}
	if o.shuffled {
		o.shufflePos = (o.shufflePos + d + len(o.shuffleOrder)) % len(o.shuffleOrder)
		o.current = o.shuffleOrder[o.shufflePos]
		return o.current
	}
	o.current = (o.current + d + o.n) % o.n
	return o.current
}

// Shuffled reports whether shuffle mode is active.
func (o *Order) Shuffled() bool {
	return o.shuffled
}

// EnableShuffle activates shuffle mode. The current item stays at position 0
// in the shuffle order; all other indices are randomized via Fisher-Yates.
func (o *Order) EnableShuffle() {
	if o.n <= 1 {
		return
	}
	o.shuffled = true
	o.shuffleOrder = make([]int, 0, o.n)
	for i := 0; i < o.n; i++ {
		if i != o.current {
			o.shuffleOrder = append(o.shuffleOrder, i)
		}
	}
	for i := len(o.shuffleOrder) - 1; i > 0; i-- {
		j := o.intn(i + 1)
		o.shuffleOrder[i], o.shuffleOrder[j] = o.shuffleOrder[j], o.shuffleOrder[i]
	}
	o.shuffleOrder = append([]int{o.current}, o.shuffleOrder...)
	o.shufflePos = 0
}

// DisableShuffle deactivates shuffle mode, keeping the current item.
func (o *Order) DisableShuffle() {
	o.shuffled = false
	o.shuffleOrder = nil
	o.shufflePos = 0
}

// ToggleShuffle flips shuffle mode and reports the new state.
func (o *Order) ToggleShuffle() bool {
	if o.shuffled {
		o.DisableShuffle()
	} else {
		o.EnableShuffle()
	}
	return o.shuffled
}
