package vim

// MaxCount is the largest count a prefix can accumulate.
// Further digits saturate rather than overflow.
const MaxCount = 999999

// CountState tracks count prefix accumulation.
type CountState struct {
	// Value is the accumulated count value.
	Value int

	// Active indicates if a count is being accumulated.
	Active bool
}

// Reset clears the count state.
func (c *CountState) Reset() {
	c.Value = 0
	c.Active = false
}

// AccumulateDigit adds a digit to the count.
// Returns true if the digit was accepted.
// Only ASCII digits are accepted, and '0' cannot start a count.
func (c *CountState) AccumulateDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}

	digit := int(r - '0')

	// '0' at the start is the line-start motion, not a count
	if !c.Active && digit == 0 {
		return false
	}

	c.Active = true
	if c.Value > (MaxCount-digit)/10 {
		c.Value = MaxCount
		return true
	}
	c.Value = c.Value*10 + digit
	return true
}

// Accepts reports whether r would be folded into the count.
func (c *CountState) Accepts(r rune) bool {
	if c.Active {
		return IsCountDigit(r)
	}
	return IsCountStart(r)
}

// Get returns the effective count (1 if no count was specified).
func (c *CountState) Get() int {
	if c.Value <= 0 {
		return 1
	}
	return c.Value
}

// IsCountStart returns true if the character could start a count.
func IsCountStart(r rune) bool {
	return r >= '1' && r <= '9'
}

// IsCountDigit returns true if the character is a digit valid in a count.
func IsCountDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// CombineCounts multiplies a pre-operator and a post-operator count.
// A zero count means "not given"; the result is zero only when both are.
// e.g., "2d3w" = delete (2*3=6) words
func CombineCounts(count1, count2 int) int {
	if count1 <= 0 && count2 <= 0 {
		return 0
	}
	if count1 <= 0 {
		count1 = 1
	}
	if count2 <= 0 {
		count2 = 1
	}
	if count1 > MaxCount/count2 {
		return MaxCount
	}
	return count1 * count2
}
