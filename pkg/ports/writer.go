package ports

// FrameWriter serialises the first plane of a frame to path.
type FrameWriter interface {
	WriteFrame(path string, frame *Frame) error
}
