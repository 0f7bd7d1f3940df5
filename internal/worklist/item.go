package worklist

import "path/filepath"

// Item is one unit of input work: a single audio file plus its label metadata.
// Items carry no identity beyond their position in the discovered list;
// duplicate label lines yield duplicate items and are processed twice.
type Item struct {
	// Speaker is the speaker identifier from the label line.
	Speaker string
	// FileName is the audio file name relative to the label file's directory.
	FileName string
	// Text is the transcript text for the recording.
	Text string
	// Group is the label file's directory relative to the dataset root.
	Group string
}

// Path returns the absolute audio file path under the dataset root.
func (it Item) Path(root string) string {
	return filepath.Join(root, it.Group, it.FileName)
}

// TargetPath returns where the token artifact for this item is persisted:
// adjacent to the source audio, with the given extension appended.
func (it Item) TargetPath(root, extension string) string {
	return it.Path(root) + extension
}
