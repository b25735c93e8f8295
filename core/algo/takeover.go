package algo

import (
	"fmt"
	"strings"

	"github.com/huangsam/depshield/schema"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// lowHistoryThreshold is the number of version appearances below which a new
// maintainer is considered to have limited history.
const lowHistoryThreshold = 5

// Account age proxies in days. The registry does not expose real account age.
const (
	privacyAccountAgeDays = 30
	defaultAccountAgeDays = 365
)

// DefaultPrivacyDomains returns the privacy-focused email providers.
func DefaultPrivacyDomains() []string {
	return []string{"proton.me", "protonmail.com", "tutanota.com", "tuta.com"}
}

// PrivacyDomains is a set of privacy-focused email domains.
type PrivacyDomains map[string]struct{}

// NewPrivacyDomains builds a lower-cased domain set.
func NewPrivacyDomains(domains []string) PrivacyDomains {
	set := make(PrivacyDomains, len(domains))
	for _, d := range domains {
		if d = normalizeIdentity(d); d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

// Contains reports whether an email domain belongs to the set. Subdomains such
// as mail.proton.me match through their registrable domain.
func (p PrivacyDomains) Contains(domain string) bool {
	domain = normalizeIdentity(domain)
	if domain == "" {
		return false
	}
	if _, ok := p[domain]; ok {
		return true
	}
	registrable, err := publicsuffix.Domain(domain)
	if err != nil || registrable == domain {
		return false
	}
	_, ok := p[registrable]
	return ok
}

func maintainerKey(p schema.Person) string {
	return normalizeIdentity(p.Name) + "<" + normalizeIdentity(p.Email) + ">"
}

func emailDomain(email string) string {
	_, domain, _ := strings.Cut(email, "@")
	return normalizeIdentity(domain)
}

// AnalyzeTakeoverRisk compares the first, previous and latest releases for
// ownership changes. Fewer than two versions always score 0.
func AnalyzeTakeoverRisk(meta schema.NormalizedMetadata, privacy PrivacyDomains) schema.TakeoverRiskResult {
	result := schema.TakeoverRiskResult{
		SuspiciousMaintainers: []schema.MaintainerProfile{},
		Signals:               []string{},
	}
	versions := meta.Versions
	if len(versions) < 2 {
		return result
	}

	first := versions[0]
	previous := versions[len(versions)-2]
	latest := versions[len(versions)-1]

	previousKeys := keySet(previous.Maintainers)
	latestKeys := keySet(latest.Maintainers)

	var added []schema.Person
	for _, m := range latest.Maintainers {
		if _, ok := previousKeys[maintainerKey(m)]; !ok {
			added = append(added, m)
		}
	}
	for key := range keySet(first.Maintainers) {
		if _, ok := latestKeys[key]; !ok {
			result.MaintainerRemoved = true
			break
		}
	}
	result.NewMaintainerAdded = len(added) > 0

	for i := 1; i < len(versions); i++ {
		prev, next := versions[i-1], versions[i]
		if prev.Publisher != "" && next.Publisher != "" && prev.Publisher != next.Publisher {
			result.PublisherChanged = true
		}
		if prev.RepositoryURL != "" && next.RepositoryURL != "" && prev.RepositoryURL != next.RepositoryURL {
			result.RepositoryURLChanged = true
		}
	}

	occurrences := make(map[string]int)
	for _, v := range versions {
		for _, m := range v.Maintainers {
			occurrences[maintainerKey(m)]++
		}
	}

	lowHistory, privacyFlag := false, false
	for _, m := range added {
		count := occurrences[maintainerKey(m)]
		isPrivacy := privacy.Contains(emailDomain(m.Email))
		if count < lowHistoryThreshold {
			lowHistory = true
		}
		if isPrivacy {
			privacyFlag = true
		}
		if count < lowHistoryThreshold || isPrivacy {
			age := defaultAccountAgeDays
			if isPrivacy {
				age = privacyAccountAgeDays
			}
			result.SuspiciousMaintainers = append(result.SuspiciousMaintainers, schema.MaintainerProfile{
				Name:           m.Name,
				Email:          m.Email,
				PackageCount:   count,
				AccountAgeDays: age,
				IsNew:          true,
			})
		}
	}

	score := 0
	if result.NewMaintainerAdded {
		names := make([]string, len(added))
		for i, m := range added {
			names[i] = m.Name
		}
		score += 30
		result.Signals = append(result.Signals, fmt.Sprintf("New maintainer(s) added in latest release: %s", strings.Join(names, ", ")))
	}
	if lowHistory {
		score += 20
		result.Signals = append(result.Signals, "New maintainer has limited package history (<5 package appearances in version history)")
	}
	if result.PublisherChanged {
		score += 15
		result.Signals = append(result.Signals, "Publisher identity changed across releases")
	}
	if result.RepositoryURLChanged {
		score += 15
		result.Signals = append(result.Signals, "Repository URL changed between versions")
	}
	if privacyFlag {
		score += 10
		result.Signals = append(result.Signals, "New maintainer uses privacy-focused email domain")
	}
	if result.MaintainerRemoved {
		score += 10
		result.Signals = append(result.Signals, "At least one original maintainer no longer appears in latest release")
	}
	result.Score = min(100, score)
	return result
}

func keySet(people []schema.Person) map[string]struct{} {
	set := make(map[string]struct{}, len(people))
	for _, p := range people {
		set[maintainerKey(p)] = struct{}{}
	}
	return set
}
