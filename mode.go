package streamio

// classifyMode splits an fopen-style mode string into its base letter and
// update flag. The b, t and e suffixes are accepted but do not affect the
// read/write classification. ok is false for anything else.
func classifyMode(mode string) (base byte, plus bool, ok bool) {
	if mode == "" {
		return 0, false, false
	}
	base = mode[0]
	switch base {
	case 'r', 'w', 'a', 'x', 'c':
	default:
		return 0, false, false
	}
	for i := 1; i < len(mode); i++ {
		switch mode[i] {
		case '+':
			plus = true
		case 'b', 't', 'e':
		default:
			return 0, false, false
		}
	}
	return base, plus, true
}

// readableMode reports whether the mode grants read access: plain "r" or
// any mode carrying "+".
func readableMode(base byte, plus bool) bool {
	return base == 'r' || plus
}

// writableMode reports whether the mode grants write access: any of the
// write, append, create-exclusive or open-or-create bases, or any mode
// carrying "+".
func writableMode(base byte, plus bool) bool {
	return base != 'r' || plus
}
