// Package schema has the models and enums shared by all parts of depshield.
package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PackageMetadata is a raw npm registry document (the "packument").
// Fields that the registry sometimes returns in different shapes use
// tolerant decoders so that malformed documents never fail to parse.
type PackageMetadata struct {
	Name        string                 `json:"name"`
	DistTags    map[string]string      `json:"dist-tags,omitempty"`
	Versions    map[string]VersionInfo `json:"versions,omitempty"`
	Time        TimeMap                `json:"time,omitempty"`
	Maintainers []Person               `json:"maintainers,omitempty"`
	Description string                 `json:"description,omitempty"`
	Homepage    string                 `json:"homepage,omitempty"`
	Repository  Repository             `json:"repository,omitzero"`
	License     License                `json:"license,omitzero"`
}

// VersionInfo is the registry manifest of a single published version.
type VersionInfo struct {
	Name            string            `json:"name,omitempty"`
	Version         string            `json:"version,omitempty"`
	License         License           `json:"license,omitzero"`
	Maintainers     []Person          `json:"maintainers,omitempty"`
	NpmUser         *Person           `json:"_npmUser,omitempty"`
	Repository      Repository        `json:"repository,omitzero"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Deprecated      Deprecation       `json:"deprecated,omitzero"`
}

// Person is a maintainer or publisher identity.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts both {"name","email"} objects and "Name <email>" strings.
func (p *Person) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = parsePersonString(s)
		return nil
	}
	if !isJSONObject(data) {
		*p = Person{}
		return nil
	}
	type plain Person
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		*p = Person{}
		return nil
	}
	*p = Person(out)
	return nil
}

func parsePersonString(s string) Person {
	var p Person
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	if open := strings.Index(s, "<"); open >= 0 {
		if end := strings.Index(s[open:], ">"); end >= 0 {
			p.Email = strings.TrimSpace(s[open+1 : open+end])
		}
		s = s[:open]
	}
	p.Name = strings.TrimSpace(s)
	return p
}

// License holds the declared license. Set is false when the field is absent.
type License struct {
	Value string
	Set   bool
}

// UnmarshalJSON accepts a string, a {"type": ...} object or null.
func (l *License) UnmarshalJSON(data []byte) error {
	*l = License{}
	switch {
	case isJSONString(data):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = License{Value: s, Set: true}
	case isJSONObject(data):
		var obj struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			// A declared but unreadable license still counts as present.
			*l = License{Set: true}
			return nil
		}
		*l = License{Value: obj.Type, Set: true}
	}
	return nil
}

// MarshalJSON writes the license back as a plain string.
func (l License) MarshalJSON() ([]byte, error) {
	if !l.Set {
		return []byte("null"), nil
	}
	return json.Marshal(l.Value)
}

// IsZero reports whether the license is absent.
func (l License) IsZero() bool { return !l.Set }

// Repository holds the declared source repository URL.
type Repository struct {
	URL string
}

// UnmarshalJSON accepts a string or a {"type","url"} object.
func (r *Repository) UnmarshalJSON(data []byte) error {
	*r = Repository{}
	switch {
	case isJSONString(data):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.URL = s
	case isJSONObject(data):
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			// An unreadable repository object is treated as no repository.
			return nil
		}
		r.URL = obj.URL
	}
	return nil
}

// MarshalJSON writes the repository as {"url": ...}.
func (r Repository) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL string `json:"url"`
	}{r.URL})
}

// IsZero reports whether no repository URL is declared.
func (r Repository) IsZero() bool { return r.URL == "" }

// Deprecation holds the deprecation notice of a version, if any.
type Deprecation struct {
	Message string
}

// UnmarshalJSON accepts a message string or a boolean.
func (d *Deprecation) UnmarshalJSON(data []byte) error {
	*d = Deprecation{}
	if isJSONString(data) {
		return json.Unmarshal(data, &d.Message)
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("true")) {
		d.Message = "deprecated"
	}
	return nil
}

// MarshalJSON writes the message as a string.
func (d Deprecation) MarshalJSON() ([]byte, error) { return json.Marshal(d.Message) }

// IsZero reports whether the version is not deprecated.
func (d Deprecation) IsZero() bool { return d.Message == "" }

// TimeMap maps "created", "modified" and version strings to ISO timestamps.
// Non-string entries (such as the "unpublished" object) are dropped.
type TimeMap map[string]string

// UnmarshalJSON keeps only string-valued entries.
func (t *TimeMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = nil
		return nil
	}
	out := make(TimeMap, len(raw))
	for k, v := range raw {
		if !isJSONString(v) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
		}
	}
	*t = out
	return nil
}

func isJSONString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// CommunitySignals are the adoption numbers that feed the community dimension.
// All values default to 0 when unavailable.
type CommunitySignals struct {
	Stars           int `json:"stars"`
	Dependents      int `json:"dependents"`
	WeeklyDownloads int `json:"weeklyDownloads"`
}

// CommitActivity is the VCS-derived activity sample of a package's repository.
// A nil *CommitActivity means no data, which is distinct from zero activity.
type CommitActivity struct {
	Weeks        []WeeklyCommits `json:"weeks"`
	Contributors []Contributor   `json:"contributors"`
	OpenIssues   int             `json:"openIssues"`
}

// WeeklyCommits is one weekly bucket; WeekStart is epoch seconds.
type WeeklyCommits struct {
	WeekStart int64 `json:"week"`
	Total     int   `json:"total"`
}

// Contributor is a VCS identity with its contribution count.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// RepoStats are repository-level numbers from the VCS host.
type RepoStats struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	Stars      int    `json:"stars"`
	OpenIssues int    `json:"openIssues"`
	Archived   bool   `json:"archived"`
}
