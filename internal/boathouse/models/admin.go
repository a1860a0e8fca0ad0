package models

import (
	"sort"
	"strconv"
	"time"
)

// Admin is an administrator credential. Hash is argon2id(password, Salt).
type Admin struct {
	ID          int64
	UserName    string
	Salt        []byte
	Hash        []byte
	IsRoot      bool
	Permissions []string
	CreatedAt   time.Time
}

// HasPermission reports whether the admin is root or holds perm.
func (a *Admin) HasPermission(perm string) bool {
	if a.IsRoot {
		return true
	}
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// NormalizePermissions sorts and de-duplicates a permission set.
func NormalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
