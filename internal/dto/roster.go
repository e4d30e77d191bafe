package dto

// ExportFile is a rendered roster download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
