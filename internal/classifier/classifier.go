// Package classifier decides whether a file should be treated as text or binary.
package classifier

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Class is the outcome of classifying a path.
type Class int

const (
	// Text files are included in the snapshot.
	Text Class = iota
	// Binary files are reported but never read into the snapshot.
	Binary
)

// String returns the lower-case name of the class.
func (class Class) String() string {
	if class == Binary {
		return "binary"
	}
	return "text"
}

// sampleLength is the number of leading bytes inspected by the content heuristic.
const sampleLength = 4096

var conventionalTextFileNames = toSet(
	"dockerfile", "makefile", "readme", "license", "authors", "changelog",
	"contributing", "procfile", "gemfile", "rakefile", "jenkinsfile", "vagrantfile",
	"pipeline", ".env", ".gitattributes", ".gitignore", ".gitmodules", ".npmrc",
	".yarnrc", ".npmignore", ".babelrc", ".eslintrc", ".prettierrc", ".editorconfig",
	".browserslistrc", "requirements.txt", "pipfile", "go.mod", "go.sum", "composer.json",
	"composer.lock", "package.json", "package-lock.json", "yarn.lock", "tsconfig.json",
	"manifest.json", "config.xml", "pom.xml", "build.gradle", "settings.gradle",
	"cmakelists.txt",
)

var textNameSuffixes = []string{".env", ".lock"}

var binaryExtensions = toSet(
	"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp", "ico", "heic", "heif", "avif",
	"icns", "cur", "mp3", "wav", "aac", "ogg", "flac", "m4a", "opus", "mp4", "mov",
	"avi", "mkv", "webm", "flv", "wmv", "woff", "woff2", "ttf", "otf", "eot", "zip",
	"rar", "tar", "gz", "7z", "bz2", "xz", "iso", "img", "dmg", "pdf", "doc", "docx",
	"xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp", "key", "numbers", "pages", "exe",
	"dll", "so", "dylib", "app", "msi", "deb", "rpm", "jar", "db", "sqlite", "sqlite3",
	"mdb", "accdb", "sqlitedb", "bin", "dat", "class", "pyd", "pyc", "pyo", "o", "a",
	"lib", "swf", "psd", "ai", "eps", "bak", "tmp", "temp", "swp",
)

var readableMimePrefixes = []string{
	"text/", "application/json", "application/xml", "application/javascript",
	"application/typescript", "application/x-httpd-php", "application/x-sh",
	"application/xhtml+xml", "image/svg+xml", "application/yaml",
	"application/toml", "application/sql", "application/rtf", "application/csv",
}

var binaryMimePrefixes = []string{"image/", "audio/", "video/", "font/"}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

// Classify decides whether the file at path is text or binary.
// Name-based rules are consulted before the file is opened; any I/O failure
// while sampling content yields Binary.
func Classify(path string) Class {
	baseName := filepath.Base(path)
	lowerName := strings.ToLower(baseName)

	if _, conventional := conventionalTextFileNames[lowerName]; conventional {
		return Text
	}
	for _, suffix := range textNameSuffixes {
		if strings.HasSuffix(baseName, suffix) {
			return Text
		}
	}

	extension := Extension(baseName)
	if _, denied := binaryExtensions[strings.ToLower(extension)]; denied {
		return Binary
	}

	if extension != "" {
		if mimeType := mime.TypeByExtension("." + extension); mimeType != "" {
			if hasAnyPrefix(mimeType, readableMimePrefixes) {
				return Text
			}
			if hasAnyPrefix(mimeType, binaryMimePrefixes) {
				return Binary
			}
		}
	}

	return classifySample(path)
}

// Extension returns the final extension of name without its dot. Names whose
// only dot is the leading one, such as ".bashrc", have no extension.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	dotIndex := strings.LastIndex(trimmed, ".")
	if dotIndex < 0 || dotIndex == len(trimmed)-1 {
		return ""
	}
	return trimmed[dotIndex+1:]
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

func classifySample(path string) Class {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return Binary
	}
	defer fileHandle.Close()

	buffer := make([]byte, sampleLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return Binary
	}
	if IsBinarySample(buffer[:bytesRead]) {
		return Binary
	}
	return Text
}

// IsBinarySample reports whether a leading content sample looks binary.
// Empty samples are text. A NUL byte marks binary content. Otherwise the
// sample must decode as UTF-8, allowing one multi-byte rune to be cut off by
// the end of the sample.
func IsBinarySample(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if utf8.Valid(sample) {
		return false
	}
	return !utf8.Valid(trimPartialRune(sample))
}

// trimPartialRune drops an incomplete trailing rune of at most utf8.UTFMax-1 bytes.
func trimPartialRune(sample []byte) []byte {
	limit := len(sample) - utf8.UTFMax
	if limit < 0 {
		limit = 0
	}
	for index := len(sample) - 1; index >= limit; index-- {
		if utf8.RuneStart(sample[index]) {
			if !utf8.FullRune(sample[index:]) {
				return sample[:index]
			}
			return sample
		}
	}
	return sample
}
