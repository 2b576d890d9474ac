package jchain

// SetAtPath writes value at path inside root, creating missing objects and
// arrays on the way, and returns the updated root. root is modified in place;
// the returned document must replace it since appending a key may reallocate.
//
// Incompatible values found along the path are replaced rather than reported.
// Arrays reached by an intermediate segment are padded with empty objects so
// the path can continue through them; arrays at the final segment are padded
// with nulls.
func SetAtPath(root D, path Path, value any) D {
	if len(path) == 0 {
		return root
	}
	seg := path[0]
	last := len(path) == 1

	if !seg.Indexed {
		if last {
			return root.Set(seg.Field, value)
		}
		child, ok := root.Value(seg.Field).(D)
		if !ok || child == nil {
			child = D{}
		}
		return root.Set(seg.Field, SetAtPath(child, path[1:], value))
	}

	arr, ok := root.Value(seg.Field).(A)
	if !ok || arr == nil {
		arr = A{}
	}
	if last {
		arr = grow(arr, seg.Index, func() any { return nil })
		arr[seg.Index] = value
		return root.Set(seg.Field, arr)
	}
	arr = grow(arr, seg.Index, func() any { return D{} })
	elem, ok := arr[seg.Index].(D)
	if !ok || elem == nil {
		elem = D{}
	}
	arr[seg.Index] = SetAtPath(elem, path[1:], value)
	return root.Set(seg.Field, arr)
}

// grow appends fill() until arr has an element at index.
func grow(arr A, index int, fill func() any) A {
	for len(arr) <= index {
		arr = append(arr, fill())
	}
	return arr
}
