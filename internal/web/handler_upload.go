package web

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// multipartMemory is how much of a form ParseMultipartForm keeps in memory
// before spilling file parts to disk.
const multipartMemory = 10 << 20

// sniffImageType reports the sniffed MIME type of an upload for logging. WebP
// is checked separately because the WHATWG sniff table has no WebP signature.
func sniffImageType(head []byte) string {
	if len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP" {
		return "image/webp"
	}
	return http.DetectContentType(head)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.resolveSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Error("failed to remove multipart temp files", "error", err)
		}
	}()

	// Parts with an empty filename are parsed as plain values, so a missing
	// filename and a missing file look the same here.
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	br := bufio.NewReader(file)
	head, _ := br.Peek(512)
	s.logger.Debug("upload received",
		"session_id", sessionID,
		"filename", header.Filename,
		"bytes", header.Size,
		"content_type", sniffImageType(head),
	)

	result, err := s.service.UploadImage(r.Context(), sessionID, header.Filename, br)
	if err != nil {
		s.writeServiceError(w, err, "Failed to process image: ")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
