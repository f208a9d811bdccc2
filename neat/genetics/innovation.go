package genetics

// connKey identifies a potential connection by its endpoints, independent of which
// genome (or how many genomes) ever requests it.
type connKey struct {
	from, to int
}

// InnovationRegistry is the process-wide, single-writer historical marker: it assigns a
// stable identifier to every (from, to) connection pair and every new node ever created
// over the life of a run, so that two genomes which independently discover the same
// structural change agree on its identity. It is created once at population birth and
// shared, by reference, into every mutation.
type InnovationRegistry struct {
	nextInnovation int64
	nextNodeID     int
	connIDs        map[connKey]int64
}

// NewInnovationRegistry returns a registry whose counters start at 1, the lowest valid id.
func NewInnovationRegistry() *InnovationRegistry {
	return &InnovationRegistry{
		nextInnovation: 1,
		nextNodeID:     1,
		connIDs:        make(map[connKey]int64),
	}
}

// NextConnID returns the innovation id for the (from, to) pair, allocating a fresh one on
// first request and returning the same id on every subsequent request for that pair -
// across any genome, in any generation. This idempotence is what lets crossover align
// genes between topologically different genomes.
func (r *InnovationRegistry) NextConnID(from, to int) int64 {
	key := connKey{from: from, to: to}
	if id, ok := r.connIDs[key]; ok {
		return id
	}
	id := r.nextInnovation
	r.connIDs[key] = id
	r.nextInnovation++
	return id
}

// NextNodeID returns a fresh node id. Unlike NextConnID, node allocations are never
// deduplicated: every call yields a strictly greater id than the last.
func (r *InnovationRegistry) NextNodeID() int {
	id := r.nextNodeID
	r.nextNodeID++
	return id
}
