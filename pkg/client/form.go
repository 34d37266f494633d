package client

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
)

// sniffLen is how much of a file is inspected to detect its type.
const sniffLen = 512

// FormField is a plain multipart field.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart file part.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data payload. Passing a *Form to Request sends it
// as multipart instead of JSON.
type Form struct {
	Files  []FormFile
	Fields []FormField
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode renders the form and returns the body plus its Content-Type.
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, file := range f.Files {
		br := bufio.NewReader(file.Content)
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, "", fmt.Errorf("read %s: %w", file.Filename, err)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.Field), quoteEscaper.Replace(filepath.Base(file.Filename))))
		h.Set("Content-Type", detectFileType(file.Filename, head))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.Field, err)
		}
		// The whole file is sent; the server enforces its own size limit.
		if _, err := io.Copy(part, br); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", file.Field, err)
		}
	}
	for _, field := range f.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// detectFileType prefers the extension and falls back to content sniffing.
// The server only accepts image/jpeg and image/png.
func detectFileType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return http.DetectContentType(data)
}
