package royalty

// Format represents the publication format a title is sold in.
// Rate schedules, sales and returns are all keyed by format.
type Format string

const (
	FormatEbook     Format = "EBOOK"
	FormatPaperback Format = "PAPERBACK"
	FormatHardcover Format = "HARDCOVER"
	FormatAudiobook Format = "AUDIOBOOK"
)

// IsValid checks if the format is a known publication format
func (f Format) IsValid() bool {
	switch f {
	case FormatEbook, FormatPaperback, FormatHardcover, FormatAudiobook:
		return true
	}
	return false
}

// String returns the string representation of the Format
func (f Format) String() string {
	return string(f)
}
