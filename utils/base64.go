// utils/base64.go
package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StripDataURLHeader ตัด prefix "data:image/...;base64," ถ้า FE ส่งมาแบบ data URL
func StripDataURLHeader(b64 string) string {
	if i := strings.Index(b64, ";base64,"); i >= 0 && strings.HasPrefix(b64, "data:") {
		return b64[i+len(";base64,"):]
	}
	return b64
}

// DecodeImageBase64 รับได้ทั้ง raw base64 และ data URL
func DecodeImageBase64(b64 string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripDataURLHeader(b64))
}

// SaveImageBytes เขียนรูปลง folder แล้วคืน path
func SaveImageBytes(data []byte, folder, ext string) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(folder, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
