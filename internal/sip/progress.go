package sip

// ProgressListener is notified at phase boundaries of a build. All callbacks
// run on the building goroutine; implementations must not block.
type ProgressListener interface {
	// RepresentationsProcessingStarted fires before any representation is
	// processed, with the representation count.
	RepresentationsProcessingStarted(total int)

	// RepresentationProcessingStarted fires before one representation's data
	// files are processed, with that representation's file count.
	RepresentationProcessingStarted(fileCount int)

	// RepresentationProcessingCurrent fires after each data file, 1-based.
	RepresentationProcessingCurrent(index int)

	// RepresentationProcessingEnded fires after one representation's data
	// files have been processed.
	RepresentationProcessingEnded()

	// RepresentationsProcessingEnded fires after all representations.
	RepresentationsProcessingEnded()

	// PackagingStarted fires before the archive is written, with the total
	// entry count.
	PackagingStarted(entryCount int)

	// PackagingCurrent fires after each archive entry, 1-based.
	PackagingCurrent(index int)

	// PackagingEnded fires once the archive has been written (or abandoned).
	PackagingEnded()
}

// NopListener is a ProgressListener that ignores every notification
type NopListener struct{}

func (NopListener) RepresentationsProcessingStarted(int) {}
func (NopListener) RepresentationProcessingStarted(int)  {}
func (NopListener) RepresentationProcessingCurrent(int)  {}
func (NopListener) RepresentationProcessingEnded()       {}
func (NopListener) RepresentationsProcessingEnded()      {}
func (NopListener) PackagingStarted(int)                 {}
func (NopListener) PackagingCurrent(int)                 {}
func (NopListener) PackagingEnded()                      {}
