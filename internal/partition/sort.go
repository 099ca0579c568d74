package partition

// MergeSort returns keys in ascending order as a new slice. The sort is
// stable; keys is not modified.
func MergeSort(keys []RecordingKey) []RecordingKey {
	if len(keys) <= 1 {
		return append([]RecordingKey(nil), keys...)
	}

	mid := len(keys) / 2
	return merge(MergeSort(keys[:mid]), MergeSort(keys[mid:]))
}

func merge(left, right []RecordingKey) []RecordingKey {
	result := make([]RecordingKey, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		// <= keeps equal keys from the left half first
		if left[i] <= right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	result = append(result, left[i:]...)
	return append(result, right[j:]...)
}
