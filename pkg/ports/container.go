package ports

// Container is an opened media file. ReadPacket returns io.EOF once the
// container is exhausted.
type Container interface {
	// Info returns format-level metadata.
	Info() ContainerInfo

	// FindStreamInfo probes the container header and returns every stream
	// in container order.
	FindStreamInfo() ([]Stream, error)

	// ReadPacket returns the next packet in container (interleaved) order.
	ReadPacket() (*Packet, error)

	// Close releases the container and its underlying file.
	Close() error
}

// ContainerOpener opens a container from a path.
type ContainerOpener interface {
	Open(path string) (Container, error)
}
