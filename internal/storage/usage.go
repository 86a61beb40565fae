package storage

import "sort"

// KeyUsage reports the payload size stored under one key.
type KeyUsage struct {
	Key   string
	Bytes int64
}

// Usage lists per-key payload sizes and the total, sorted by key. Keys
// removed between the listing and the read are skipped.
func Usage(b Backend) ([]KeyUsage, int64, error) {
	keys, err := b.Keys()
	if err != nil {
		return nil, 0, err
	}
	sort.Strings(keys)

	usage := make([]KeyUsage, 0, len(keys))
	total := int64(0)
	for _, key := range keys {
		raw, ok, err := b.Get(key)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		size := int64(len(raw))
		usage = append(usage, KeyUsage{Key: key, Bytes: size})
		total += size
	}
	return usage, total, nil
}
