package remote

type EmptyResponse struct {
}

type SetRotateRequest struct {
	Landscape bool
	Invert    bool
}

// ShowRequest carries one frame as PNG.
type ShowRequest struct {
	Image []byte
}
