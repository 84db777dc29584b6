package summarize

// Mode selects the summarization granularity.
type Mode string

const (
	// ModeFile summarizes a whole document in one pass.
	ModeFile Mode = "file"
	// ModeNode summarizes each section of a filing individually.
	ModeNode Mode = "node"
	// ModeMaster aggregates a filing's node summaries into one summary.
	ModeMaster Mode = "master"
	// ModeCross summarizes across a collection of documents under a theme.
	ModeCross Mode = "cross"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFile, ModeNode, ModeMaster, ModeCross:
		return true
	}
	return false
}
