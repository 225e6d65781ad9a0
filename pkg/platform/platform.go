// Package platform identifies the server family and version a script targets
// and answers the questions whose answer depends on it: default SQL mode,
// integer encoding of modes, reserved words, default character set and the
// system variable catalogue.
package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// Name is a server family.
type Name string

// Supported server families.
const (
	MySQL   Name = "mysql"
	MariaDB Name = "mariadb"
)

// Version is a server version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Int returns the version in the form used by versioned comments (80032).
func (v Version) Int() int {
	return v.Major*10000 + v.Minor*100 + v.Patch
}

// AtLeast reports whether v is at or after major.minor.patch.
func (v Version) AtLeast(major, minor, patch int) bool {
	return v.Int() >= Version{major, minor, patch}.Int()
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "8", "8.0" or "8.0.32". A trailing suffix after the
// numeric part ("10.6.12-MariaDB-log") is ignored.
func ParseVersion(s string) (Version, error) {
	var v Version
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 || parts[0] == "" {
		return v, fmt.Errorf("invalid version %q", s)
	}
	nums := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		*nums[i] = n
	}
	return v, nil
}

// Platform is a server family at a version. It is a small value type.
type Platform struct {
	Name    Name
	Version Version
}

// New creates a platform.
func New(name Name, v Version) Platform {
	return Platform{Name: name, Version: v}
}

// Default returns MySQL 8.0.
func Default() Platform {
	return New(MySQL, Version{Major: 8})
}

// Parse parses "mysql", "mariadb-10.6" or "mysql:8.0.32".
func Parse(s string) (Platform, error) {
	name, ver, hasVer := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !hasVer {
		name, ver, hasVer = strings.Cut(name, ":")
	}

	var p Platform
	switch Name(name) {
	case MySQL:
		p = Default()
	case MariaDB:
		p = New(MariaDB, Version{Major: 10, Minor: 6})
	default:
		return Platform{}, fmt.Errorf("unknown platform %q (want mysql or mariadb)", name)
	}
	if hasVer {
		v, err := ParseVersion(ver)
		if err != nil {
			return Platform{}, fmt.Errorf("platform %s: %w", name, err)
		}
		p.Version = v
	}
	return p, nil
}

// IsMariaDB reports whether the platform is MariaDB.
func (p Platform) IsMariaDB() bool {
	return p.Name == MariaDB
}

func (p Platform) String() string {
	return fmt.Sprintf("%s-%s", p.Name, p.Version)
}

// DefaultCharset returns the server's default character set.
func (p Platform) DefaultCharset() string {
	if p.Name == MySQL && p.Version.AtLeast(8, 0, 0) {
		return "utf8mb4"
	}
	return "latin1"
}

// DefaultCollation returns the server's default collation.
func (p Platform) DefaultCollation() string {
	if p.Name == MySQL && p.Version.AtLeast(8, 0, 0) {
		return "utf8mb4_0900_ai_ci"
	}
	return "latin1_swedish_ci"
}

// SupportsPersist reports whether SET PERSIST is available.
func (p Platform) SupportsPersist() bool {
	return p.Name == MySQL && p.Version.AtLeast(8, 0, 0)
}

// SupportsVersionedComment reports whether a /*!NNNNN ... */ comment body is
// executed. mariaOnly marks the /*M!NNNNN ... */ form.
func (p Platform) SupportsVersionedComment(version int, mariaOnly bool) bool {
	if mariaOnly && !p.IsMariaDB() {
		return false
	}
	return p.Version.Int() >= version
}
