package source

// Backend names a configured expense data source.
type Backend string

const (
	BackendCSV      Backend = "csv"
	BackendSheets   Backend = "sheets"
	BackendSnapshot Backend = "snapshot"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	switch b {
	case BackendCSV, BackendSheets, BackendSnapshot:
		return true
	}
	return false
}
