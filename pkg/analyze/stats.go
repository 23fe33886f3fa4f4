package analyze

// FileStats counts the lines of a single file. Records and Failures
// always add up to Lines.
type FileStats struct {
	Lines    uint64
	Records  uint64
	Failures uint64
	Bytes    uint64
}

type Summary struct {
	FileStats

	// Files that were opened, including those cut short by a read error
	Files      uint64
	Skipped    uint64
	OpenErrors uint64
	ReadErrors uint64
}

func (s *Summary) Add(f FileStats) {
	s.Lines += f.Lines
	s.Records += f.Records
	s.Failures += f.Failures
	s.Bytes += f.Bytes
}
