package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes inspected when classifying
// file content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads up to sniffLength bytes from the file at path and reports
// whether the content appears to be binary. Unreadable files are treated as text.
func IsFileBinary(path string) bool {
	prefix, readError := readSniffPrefix(path)
	if readError != nil {
		return false
	}
	return IsBinary(prefix)
}

// readSniffPrefix returns the first sniffLength bytes of the file at path.
func readSniffPrefix(path string) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
