package llm

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/timetable-import/constants"
)

// ReadImageDataURL loads a supported image as a base64 data URL for the vision model.
func ReadImageDataURL(path string) (string, error) {
	mt := constants.MimeTypeForExt(filepath.Ext(path))
	if mt == "" {
		return "", fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if st.Size() > int64(constants.MaxVisionMBDefault)*1024*1024 {
		return "", fmt.Errorf("image too large: %d bytes", st.Size())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
