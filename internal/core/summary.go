package core

// YearlyBuckets groups monthly snapshots by projection year
// (year = (month-1)/12 + 1) and keeps the last snapshot seen for each year.
// Buckets are returned in ascending year order.
func YearlyBuckets(snapshots []Snapshot) []YearBucket {
	buckets := make([]YearBucket, 0, len(snapshots)/12+1)
	for _, s := range snapshots {
		year := (s.Month-1)/12 + 1
		b := YearBucket{
			Year:      year,
			Principal: s.Principal,
			Interest:  s.Interest,
			Total:     s.Total,
		}
		if n := len(buckets); n > 0 && buckets[n-1].Year == year {
			buckets[n-1] = b
			continue
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// Final returns the last snapshot of a projection.
func Final(snapshots []Snapshot) (Snapshot, bool) {
	if len(snapshots) == 0 {
		return Snapshot{}, false
	}
	return snapshots[len(snapshots)-1], true
}
