package ecs

// Each2 iterates over entities that have both component A and B.
// It walks the smaller pool's dense array and probes the other by handle.
func Each2[A, B any](r *Registry, fn func(Handle, *A, *B)) {
	pa, pb := PoolFor[A](r), PoolFor[B](r)
	if pa.Len() <= pb.Len() {
		for i := range pa.data {
			h := pa.handleAt(i)
			if b, ok := pb.Get(h); ok {
				fn(h, &pa.data[i], b)
			}
		}
		return
	}
	for i := range pb.data {
		h := pb.handleAt(i)
		if a, ok := pa.Get(h); ok {
			fn(h, a, &pb.data[i])
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](r *Registry, fn func(Handle, *A, *B, *C)) {
	pa, pb, pc := PoolFor[A](r), PoolFor[B](r), PoolFor[C](r)

	// Drive from the smallest pool
	smallest := pa.Len()
	which := 0
	if pb.Len() < smallest {
		smallest = pb.Len()
		which = 1
	}
	if pc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for i := range pa.data {
			h := pa.handleAt(i)
			if b, ok := pb.Get(h); ok {
				if c, ok := pc.Get(h); ok {
					fn(h, &pa.data[i], b, c)
				}
			}
		}
	case 1:
		for i := range pb.data {
			h := pb.handleAt(i)
			if a, ok := pa.Get(h); ok {
				if c, ok := pc.Get(h); ok {
					fn(h, a, &pb.data[i], c)
				}
			}
		}
	case 2:
		for i := range pc.data {
			h := pc.handleAt(i)
			if a, ok := pa.Get(h); ok {
				if b, ok := pb.Get(h); ok {
					fn(h, a, b, &pc.data[i])
				}
			}
		}
	}
}
