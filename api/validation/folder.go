package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	folderPathPattern  = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)
	folderQueryPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ExtractFolderID pulls a Drive folder id out of a folder URL. It returns ""
// when the URL matches neither the /folders/<id> nor the id=<id> shape.
func ExtractFolderID(url string) string {
	if m := folderPathPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := folderQueryPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// ResolveFolderID prefers an explicit id over one parsed from the URL. Blank
// values count as absent.
func ResolveFolderID(folderID, folderURL string) (string, error) {
	if id := strings.TrimSpace(folderID); id != "" {
		return id, nil
	}
	if url := strings.TrimSpace(folderURL); url != "" {
		if id := ExtractFolderID(url); id != "" {
			return id, nil
		}
	}
	return "", ErrFolderRequired
}

// Pagination parses limit and offset query values, applying defaults for
// empty ones.
func Pagination(limitParam, offsetParam string) (limit, offset int, err error) {
	limit = DefaultLimit
	if limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, ErrInvalidPagination
		}
	}

	if offsetParam != "" {
		offset, err = strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			return 0, 0, ErrInvalidPagination
		}
	}

	return limit, offset, nil
}
