package httpx

import (
	"errors"
	"io"
	"mime"
	"net/http"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

const (
	// maxDocumentBytes caps uploads at 10 MiB; larger files are rejected
	// locally, never forwarded.
	maxDocumentBytes = 10 << 20

	missingFileMessage     = "File mancante"
	unsupportedTypeMessage = "Tipo di file non supportato"
	fileTooLargeMessage    = "File troppo grande"
)

// allowedDocumentTypes is the upload MIME allow-list: pdf, docx, odt, txt.
var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
	"text/plain":                                                              true,
}

// DocumentHandlers proxies document-extraction uploads. The route is public:
// no credential is attached or required.
type DocumentHandlers struct {
	Upstream *upstream.Client
}

// ExtractDocument validates the uploaded file locally and forwards it as a
// freshly-built multipart body.
func (h *DocumentHandlers) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxDocumentBytes {
		WriteError(w, apperrors.InvalidInput(fileTooLargeMessage))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, apperrors.InvalidInput(fileTooLargeMessage))
			return
		}
		WriteError(w, apperrors.InvalidInput(missingFileMessage))
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if !allowedDocumentTypes[contentType] {
		WriteError(w, apperrors.InvalidInput(unsupportedTypeMessage))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, apperrors.InvalidInput(fileTooLargeMessage))
			return
		}
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, badPayloadMessage))
		return
	}

	res, err := h.Upstream.Do(r.Context(), upstream.Request{
		Method: http.MethodPost,
		Path:   "/extract-document",
		File: &upstream.FilePart{
			FieldName:   "file",
			FileName:    header.Filename,
			ContentType: contentType,
			Content:     content,
		},
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteRaw(w, res.Status, res.ContentType, res.Body)
}
