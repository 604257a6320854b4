package todo

// Store is the snapshot backend a Manager synchronizes with. Load returns the
// full previously saved snapshot (nil when none exists); Save overwrites it
// with the complete current collection. There is no incremental protocol.
type Store interface {
	Load() ([]Record, error)
	Save([]Record) error
}
