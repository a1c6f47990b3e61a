package lox

func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

func FilterAssociate[T any, R comparable](collection []T, callback func(item T) (R, bool)) map[R]T {
	result := make(map[R]T, len(collection))

	for _, item := range collection {
		if r, ok := callback(item); ok {
			result[r] = item
		}
	}

	return result
}
