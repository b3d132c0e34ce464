package http

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// newImageForm writes a multipart body with an "image" part and a
// description field, returning its Content-Type.
func newImageForm(t *testing.T, buf *bytes.Buffer, image []byte, description string) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="first.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("description", description))
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}
