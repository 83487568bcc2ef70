package metadata

import "regexp"

// unsafeFolderChars matches everything the fetch tool does not keep in a title folder name.
var unsafeFolderChars = regexp.MustCompile(`[^a-zA-Z0-9 _\-()+]`)

// FolderName returns the folder the fetch tool creates for title.
func FolderName(title string) string {
	return unsafeFolderChars.ReplaceAllString(title, "_")
}
