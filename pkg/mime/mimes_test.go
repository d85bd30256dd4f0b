package mime

import (
	"strings"
	"sync"
	"testing"
)

func TestStringTypeByExtension(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		expected string
	}{
		{
			name:     "PDF document",
			filePath: "document.pdf",
			expected: "application/pdf",
		},
		{
			name:     "PNG image",
			filePath: "image.png",
			expected: "image/png",
		},
		{
			name:     "JSON file",
			filePath: "data.json",
			expected: "application/json",
		},
		{
			name:     "HTML file",
			filePath: "index.html",
			expected: "text/html",
		},
		{
			name:     "JavaScript file",
			filePath: "script.js",
			expected: "application/javascript",
		},
		{
			name:     "CSS file",
			filePath: "styles.css",
			expected: "text/css",
		},
		{
			name:     "XML file",
			filePath: "config.xml",
			expected: "application/xml",
		},
		{
			name:     "ZIP archive",
			filePath: "archive.zip",
			expected: "application/zip",
		},
		{
			name:     "MP3 audio",
			filePath: "song.mp3",
			expected: "audio/mpeg",
		},
		{
			name:     "MP4 video",
			filePath: "video.mp4",
			expected: "video/mp4",
		},
		{
			name:     "DOCX document",
			filePath: "document.docx",
			expected: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		{
			name:     "XLSX spreadsheet",
			filePath: "spreadsheet.xlsx",
			expected: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		{
			name:     "PPTX presentation",
			filePath: "presentation.pptx",
			expected: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		},
		{
			name:     "unknown extension",
			filePath: "file.unknown123",
			expected: "application/octet-stream",
		},
		{
			name:     "no extension",
			filePath: "README",
			expected: "application/octet-stream",
		},
		{
			name:     "uppercase extension",
			filePath: "document.PDF",
			expected: "application/pdf",
		},
		{
			name:     "mixed case extension",
			filePath: "Image.PnG",
			expected: "image/png",
		},
		{
			name:     "path with directories",
			filePath: "/path/to/file.json",
			expected: "application/json",
		},
		{
			name:     "Windows path",
			filePath: "C:\\Users\\Documents\\file.docx",
			expected: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		{
			name:     "relative path",
			filePath: "../data/config.xml",
			expected: "application/xml",
		},
		{
			name:     "multiple dots in filename",
			filePath: "my.file.name.csv",
			expected: "text/csv",
		},
		{
			name:     "hidden file with extension",
			filePath: ".htaccess",
			expected: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StringTypeByExtension(tt.filePath)
			split := strings.Split(result, ";")
			if split[0] != tt.expected {
				t.Errorf("StringTypeByExtension(%q) = %q, want %q", tt.filePath, result, tt.expected)
			}
		})
	}
}

func TestConcurrentStringTypeByExtension(t *testing.T) {
	const goroutines = 50
	const operations = 1000

	extensions := []string{".json", ".html", ".pdf", ".png", ".xml", ".css"}

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operations; j++ {
				ext := extensions[j%len(extensions)]
				result := StringTypeByExtension("test" + ext)
				if result == "" {
					t.Errorf("StringTypeByExtension returned empty for %s", ext)
				}
			}
		}(i)
	}

	wg.Wait()
}

func TestMicrosoftOfficeFormats(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{".pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{".doc", "application/msword"},
		{".xls", "application/vnd.ms-excel"},
		{".ppt", "application/vnd.ms-powerpoint"},
		{".dotx", "application/vnd.openxmlformats-officedocument.wordprocessingml.template"},
		{".xltx", "application/vnd.openxmlformats-officedocument.spreadsheetml.template"},
		{".potx", "application/vnd.openxmlformats-officedocument.presentationml.template"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			result := StringTypeByExtension("document" + tt.ext)
			if result != tt.expected {
				t.Errorf("StringTypeByExtension(%q) = %q, want %q", tt.ext, result, tt.expected)
			}
		})
	}
}

func TestMediaFormats(t *testing.T) {
	audioFormats := []string{".mp3", ".wav", ".aac", ".flac", ".wma"}
	videoFormats := []string{".mp4", ".avi", ".wmv", ".flv", ".webm"}

	for _, ext := range audioFormats {
		t.Run("audio"+ext, func(t *testing.T) {
			result := StringTypeByExtension("audio" + ext)
			if result == "" || result == "application/octet-stream" {
				t.Errorf("Audio extension %q should have a specific MIME type", ext)
			}
		})
	}

	for _, ext := range videoFormats {
		t.Run("video"+ext, func(t *testing.T) {
			result := StringTypeByExtension("video" + ext)
			if result == "" || result == "application/octet-stream" {
				t.Errorf("Video extension %q should have a specific MIME type", ext)
			}
		})
	}
}

func TestCompressedFormats(t *testing.T) {
	compressedExts := []string{".zip", ".gz", ".bz2", ".tar", ".rar"}

	for _, ext := range compressedExts {
		t.Run(ext, func(t *testing.T) {
			result := StringTypeByExtension("archive" + ext)
			if result == "" || result == "application/octet-stream" {
				t.Errorf("Compressed extension %q should have a specific MIME type", ext)
			}
		})
	}
}

func TestTextFormats(t *testing.T) {
	textFormats := map[string]string{
		".txt":  "text/plain",
		".csv":  "text/csv",
		".html": "text/html",
		".css":  "text/css",
		".rtf":  "text/rtf",
	}

	for ext, expectedMime := range textFormats {
		t.Run(ext, func(t *testing.T) {
			result := StringTypeByExtension("file" + ext)
			if result != expectedMime {
				t.Errorf("Extension %q: got %q, want %q", ext, result, expectedMime)
			}
		})
	}
}

func BenchmarkStringTypeByExtension(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = StringTypeByExtension("test.json")
	}
}
