package holdem

func getMapKeys(m map[uint16]bool) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
