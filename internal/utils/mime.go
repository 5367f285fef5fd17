package utils

import "net/http"

// DetectMimeType returns the MIME type of the file at filePath based on a
// content sniff of the leading bytes. If the file cannot be read, an empty
// string is returned.
func DetectMimeType(filePath string) string {
	prefix, readError := readSniffPrefix(filePath)
	if readError != nil {
		return ""
	}
	return http.DetectContentType(prefix)
}
