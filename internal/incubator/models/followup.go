package models

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// FollowUp is an accompaniment log entry of an individual tenant.
type FollowUp struct {
	ID        uint
	TenantID  uint
	Date      time.Time
	StartTime string
	EndTime   string
	Type      string
	Subject   string
	Feedback  string
	Audit
}

// FileFolder is the lifecycle folder of a follow-up file.
type FileFolder string

const (
	FolderImported FileFolder = "imported"
	FolderArchived FileFolder = "archived"
)

// FollowUpFile describes an object stored for a follow-up.
type FollowUpFile struct {
	Name         string
	Folder       FileFolder
	Key          string
	Size         int64
	LastModified time.Time
	URL          string
}

// FollowUpPrefix is the object key prefix of a follow-up's files:
// Tiers/PP/<tenant>/Accompagnement_<id>/.
func FollowUpPrefix(tenantID, followUpID uint) string {
	return fmt.Sprintf("Tiers/%s/%d/Accompagnement_%d/", KindIndividual, tenantID, followUpID)
}

// FollowUpKey builds the key of a file within a folder.
func FollowUpKey(tenantID, followUpID uint, folder FileFolder, name string) string {
	return FollowUpPrefix(tenantID, followUpID) + string(folder) + "/" + name
}

// SanitizeFileName keeps the base name of an uploaded file.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// SplitFollowUpKey extracts the folder and file name of a follow-up object key.
// ok is false for keys outside the imported/archived convention.
func SplitFollowUpKey(key string) (folder FileFolder, name string, ok bool) {
	dir, name := path.Split(key)
	switch path.Base(strings.TrimSuffix(dir, "/")) {
	case string(FolderImported):
		return FolderImported, name, name != ""
	case string(FolderArchived):
		return FolderArchived, name, name != ""
	}
	return "", "", false
}

// ArchivedKey maps an imported/ key to its archived/ counterpart.
func ArchivedKey(importedKey string) (string, bool) {
	marker := "/" + string(FolderImported) + "/"
	idx := strings.LastIndex(importedKey, marker)
	if idx < 0 {
		return "", false
	}
	return importedKey[:idx] + "/" + string(FolderArchived) + "/" + importedKey[idx+len(marker):], true
}
