package models

import "io"

type Kind string

const (
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported"
)

// Upload is a file received in a multipart request. It lives only as long
// as the request that carried it.
type Upload struct {
	Filename  string
	Extension string
	Kind      Kind
	Size      int64
	Content   io.Reader
}

func (u *Upload) IsSupported() bool {
	return u.Kind != KindUnsupported
}
